// Package router assembles the HTTP application.
package router

import (
	"strings"

	"agritrack-api/internal/handler"
	"agritrack-api/internal/metrics"
	"agritrack-api/internal/middleware"
	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"
	"agritrack-api/internal/ws"
	"agritrack-api/pkg/jwt"
	"agritrack-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

type Options struct {
	AppName       string
	IsProduction  bool
	BodyLimit     int
	AllowOrigins  []string
	UploadDir     string
	UploadURL     string
	AccessLog     bool
	EnableMetrics bool
}

type Services struct {
	Auth         service.AuthService
	Users        service.UserService
	Products     service.ProductService
	Transactions service.TransactionService
	Dashboard    service.DashboardService
	Reports      service.ReportService
	ActivityLogs service.ActivityLogService
	StorageAreas service.ReferenceService[model.StorageArea]
	Barangays    service.ReferenceService[model.Barangay]
	Categories   service.ReferenceService[model.Category]
}

type Deps struct {
	DB       *gorm.DB
	Tokens   *jwt.Manager
	UserRepo repository.UserRepository
	Hub      *ws.Hub
	Log      logger.ZapLogger
	Services Services
}

// New builds the fiber app with every route mounted.
func New(opts Options, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(opts.IsProduction, deps.Log),
	})

	// Middleware
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New(corsConfig(opts.AllowOrigins)))
	if opts.EnableMetrics {
		app.Use(metrics.Middleware())
		app.Get("/metrics", metrics.Handler())
	}
	if opts.UploadDir != "" && opts.UploadURL != "" {
		app.Static(opts.UploadURL, opts.UploadDir)
	}

	svc := deps.Services
	authHandler := handler.NewAuthHandler(svc.Auth)
	userHandler := handler.NewUserHandler(svc.Users)
	productHandler := handler.NewProductHandler(svc.Products)
	txHandler := handler.NewTransactionHandler(svc.Transactions)
	dashHandler := handler.NewDashboardHandler(svc.Dashboard)
	reportHandler := handler.NewReportHandler(svc.Reports)
	activityHandler := handler.NewActivityLogHandler(svc.ActivityLogs)
	storageHandler := handler.NewReferenceHandler(svc.StorageAreas, "storage area")
	barangayHandler := handler.NewReferenceHandler(svc.Barangays, "barangay")
	categoryHandler := handler.NewReferenceHandler(svc.Categories, "category")
	healthHandler := handler.NewHealthHandler(deps.DB)

	app.Get("/health", healthHandler.Health)

	api := app.Group("/api")
	requireAuth := middleware.RequireAuth(deps.Tokens, deps.UserRepo)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// ============ PUBLIC ROUTES ============
	users := api.Group("/users")
	users.Post("/register", authHandler.Register)
	users.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	users.Get("/verify", requireAuth, authHandler.Verify)
	users.Get("/", requireAuth, adminOnly, userHandler.GetUsers)
	users.Get("/:id", requireAuth, userHandler.GetUser)
	users.Put("/:id", requireAuth, adminOnly, userHandler.UpdateUser)
	users.Delete("/:id", requireAuth, adminOnly, userHandler.DeleteUser)

	// Static segments before /:id
	products := api.Group("/products", requireAuth)
	products.Get("/export", productHandler.ExportProducts)
	products.Post("/import", productHandler.ImportProducts)
	products.Get("/", productHandler.GetProducts)
	products.Post("/", productHandler.CreateProduct)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Delete("/:id", adminOnly, productHandler.DeleteProduct)

	transactions := api.Group("/transactions", requireAuth)
	transactions.Get("/", txHandler.GetTransactions)
	transactions.Post("/", txHandler.CreateTransaction)
	transactions.Get("/:id", txHandler.GetTransaction)

	dashboard := api.Group("/dashboard", requireAuth)
	dashboard.Get("/stats", dashHandler.GetDashboardStats)
	dashboard.Get("/stock-movement", dashHandler.GetStockMovement)

	reports := api.Group("/reports", requireAuth)
	reports.Get("/inventory", reportHandler.InventoryReport)
	reports.Get("/transactions", reportHandler.TransactionReport)
	reports.Get("/filter-options", reportHandler.FilterOptions)
	reports.Get("/", reportHandler.ListReports)
	reports.Get("/:id/pdf", reportHandler.DownloadPDF)
	reports.Get("/:id", reportHandler.GetReport)

	logs := api.Group("/activity-logs", requireAuth)
	logs.Get("/stats", activityHandler.Stats)
	logs.Get("/recent", activityHandler.Recent)
	logs.Get("/", activityHandler.List)

	storageAreas := api.Group("/storage-areas", requireAuth)
	storageAreas.Get("/", storageHandler.List)
	storageAreas.Post("/", adminOnly, storageHandler.Create)
	storageAreas.Put("/:id", adminOnly, storageHandler.Update)
	storageAreas.Delete("/:id", adminOnly, storageHandler.Delete)

	barangays := api.Group("/barangays", requireAuth)
	barangays.Get("/", barangayHandler.List)
	barangays.Post("/", adminOnly, barangayHandler.Create)
	barangays.Put("/:id", adminOnly, barangayHandler.Update)
	barangays.Delete("/:id", adminOnly, barangayHandler.Delete)

	categories := api.Group("/categories", requireAuth)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)

	// WebSocket Route
	if deps.Hub != nil {
		app.Use("/ws", handler.UpgradeOnly)
		app.Get("/ws", handler.LiveFeed(deps.Hub))
	}

	app.Use(middleware.NotFound)

	return app
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		return cors.Config{AllowOrigins: "*"}
	}
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
	}
}
