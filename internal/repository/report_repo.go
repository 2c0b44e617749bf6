package repository

import (
	"agritrack-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(report *model.Report) error
	FindByID(id uuid.UUID) (*model.Report, error)
	FindAll(reportType model.ReportType, limit int) ([]model.Report, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) Create(report *model.Report) error {
	return r.db.Create(report).Error
}

func (r *reportRepo) FindByID(id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := r.db.First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// FindAll lists reports newest first without their snapshots.
func (r *reportRepo) FindAll(reportType model.ReportType, limit int) ([]model.Report, error) {
	var reports []model.Report
	q := r.db.Omit("snapshot")
	if reportType != "" {
		q = q.Where("type = ?", reportType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Order("generated_at DESC").Find(&reports).Error
	return reports, err
}
