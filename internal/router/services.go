package router

import (
	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"
	"agritrack-api/internal/storage"
	"agritrack-api/pkg/jwt"

	"gorm.io/gorm"
)

// NewServices wires repositories into services. notifier may be nil.
func NewServices(db *gorm.DB, tokens *jwt.Manager, images storage.ImageStore,
	audit service.ActivityRecorder, notifier service.Notifier) Services {

	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	reportRepo := repository.NewReportRepo(db)
	activityRepo := repository.NewActivityLogRepo(db)
	storageRepo := repository.NewReferenceRepo[model.StorageArea](db)
	barangayRepo := repository.NewReferenceRepo[model.Barangay](db)
	categoryRepo := repository.NewReferenceRepo[model.Category](db)

	return Services{
		Auth:         service.NewAuthService(userRepo, tokens, audit),
		Users:        service.NewUserService(userRepo, audit),
		Products:     service.NewProductService(db, productRepo, txRepo, images, audit, notifier),
		Transactions: service.NewTransactionService(db, productRepo, txRepo, audit, notifier),
		Dashboard:    service.NewDashboardService(productRepo, txRepo),
		Reports: service.NewReportService(service.ReportDeps{
			Products:     productRepo,
			Transactions: txRepo,
			Users:        userRepo,
			Reports:      reportRepo,
			Categories:   categoryRepo,
			StorageAreas: storageRepo,
		}, audit),
		ActivityLogs: service.NewActivityLogService(activityRepo),
		StorageAreas: service.NewReferenceService[model.StorageArea](storageRepo, "storage_area", "Storage area", audit),
		Barangays:    service.NewReferenceService[model.Barangay](barangayRepo, "barangay", "Barangay", audit),
		Categories:   service.NewReferenceService[model.Category](categoryRepo, "category", "Category", audit),
	}
}
