package repository

import (
	"agritrack-api/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the API owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Transaction{},
		&model.ActivityLog{},
		&model.Report{},
		&model.StorageArea{},
		&model.Barangay{},
		&model.Category{},
	)
}

// SeedReferenceData inserts the default categories, storage areas and
// barangays that are missing.
func SeedReferenceData(db *gorm.DB) error {
	if err := NewReferenceRepo[model.Category](db).SeedDefaults(model.DefaultCategories); err != nil {
		return err
	}
	if err := NewReferenceRepo[model.StorageArea](db).SeedDefaults(model.DefaultStorageAreas); err != nil {
		return err
	}
	return NewReferenceRepo[model.Barangay](db).SeedDefaults(model.DefaultBarangays)
}
