package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Named is implemented by the reference models (storage areas, barangays,
// categories), which are matched by name rather than by foreign key.
type Named interface {
	ReferenceName() string
	ReferenceID() uuid.UUID
}

type ReferenceRepository[T Named] interface {
	FindAll() ([]T, error)
	FindByID(id uuid.UUID) (*T, error)
	FindByName(name string) (*T, error)
	Create(item *T) error
	Update(id uuid.UUID, item *T) error
	Delete(id uuid.UUID) error
	Names() ([]string, error)
	SeedDefaults(defaults []T) error
}

type referenceRepo[T Named] struct {
	db *gorm.DB
}

func NewReferenceRepo[T Named](db *gorm.DB) ReferenceRepository[T] {
	return &referenceRepo[T]{db}
}

func (r *referenceRepo[T]) FindAll() ([]T, error) {
	var items []T
	err := r.db.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *referenceRepo[T]) FindByID(id uuid.UUID) (*T, error) {
	var item T
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *referenceRepo[T]) FindByName(name string) (*T, error) {
	var item T
	if err := r.db.First(&item, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *referenceRepo[T]) Create(item *T) error {
	return r.db.Create(item).Error
}

func (r *referenceRepo[T]) Update(id uuid.UUID, item *T) error {
	res := r.db.Model(new(T)).Where("id = ?", id).Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *referenceRepo[T]) Delete(id uuid.UUID) error {
	res := r.db.Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *referenceRepo[T]) Names() ([]string, error) {
	var names []string
	err := r.db.Model(new(T)).Order("name ASC").Pluck("name", &names).Error
	return names, err
}

// SeedDefaults creates the given entries if they don't exist
func (r *referenceRepo[T]) SeedDefaults(defaults []T) error {
	for _, d := range defaults {
		if _, err := r.FindByName(d.ReferenceName()); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		item := d
		if err := r.db.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}
