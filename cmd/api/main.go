package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"agritrack-api/internal/audit"
	"agritrack-api/internal/config"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/router"
	"agritrack-api/internal/service"
	"agritrack-api/internal/storage"
	"agritrack-api/internal/ws"
	"agritrack-api/pkg/database"
	"agritrack-api/pkg/jwt"
	"agritrack-api/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const uploadURL = "/uploads"

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     !cfg.IsProduction(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	if cfg.JWT.Secret == "" && !cfg.IsProduction() {
		appLogger.Warn("JWT_SECRET not set, using the development secret")
	}
	if !cfg.EnsureSecret() {
		appLogger.Fatal("JWT_SECRET must be set in production")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database())
	if err != nil {
		appLogger.Fatal("database connection failed", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		appLogger.Fatal("migration failed", zap.Error(err))
	}

	// 3. Seed reference data and the bootstrap admin
	if err := repository.SeedReferenceData(db); err != nil {
		appLogger.Warn("failed to seed reference data", zap.Error(err))
	}
	created, err := service.EnsureAdmin(repository.NewUserRepo(db), cfg.Seed.AdminName, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	if err != nil {
		appLogger.Warn("failed to seed admin user", zap.Error(err))
	} else if created {
		appLogger.Info("admin user created", zap.String("email", cfg.Seed.AdminEmail))
	}

	// 4. Setup WebSocket Hub and audit writer
	hub := ws.NewHub(appLogger)
	go hub.Run()

	auditLog := audit.NewLogger(repository.NewActivityLogRepo(db), appLogger, cfg.Audit.QueueSize)
	auditLog.Start()

	images, err := storage.NewLocalImageStore(cfg.Server.UploadDir, uploadURL)
	if err != nil {
		appLogger.Fatal("upload directory unavailable", zap.Error(err))
	}

	// 5. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expires)
	app := router.New(router.Options{
		AppName:       "AgriTrack API",
		IsProduction:  cfg.IsProduction(),
		BodyLimit:     cfg.BodyLimitBytes(),
		AllowOrigins:  cfg.CORS.AllowOrigins,
		UploadDir:     cfg.Server.UploadDir,
		UploadURL:     uploadURL,
		AccessLog:     true,
		EnableMetrics: true,
	}, router.Deps{
		DB:       db,
		Tokens:   tokens,
		UserRepo: repository.NewUserRepo(db),
		Hub:      hub,
		Log:      appLogger,
		Services: router.NewServices(db, tokens, images, auditLog, hub),
	})

	// 6. Graceful Shutdown
	go func() {
		appLogger.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.AppEnv))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			appLogger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("server forced to shutdown", zap.Error(err))
	}
	hub.Stop()
	auditLog.Close()

	stats := auditLog.Stats()
	appLogger.Info("server exited",
		zap.Int64("audit_written", stats.Written),
		zap.Int64("audit_failed", stats.Failed),
		zap.Int64("audit_dropped", stats.Dropped))
}
