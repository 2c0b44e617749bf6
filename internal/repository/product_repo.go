package repository

import (
	"strings"
	"time"

	"agritrack-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings. Zero values are ignored.
type ProductFilter struct {
	Category    string
	StorageArea string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time // exclusive
}

// CategoryCount is one row of the products-per-category aggregate.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Quantity int64  `json:"quantity"`
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByName(name string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID, deletedBy string) error
	IncrementStock(id uuid.UUID, qty int, updatedBy string) error
	DecrementStockIfSufficient(id uuid.UUID, qty int, updatedBy string) (bool, error)
	SetStock(id uuid.UUID, qty int, updatedBy string) error
	CountByCategory() ([]CategoryCount, error)
	TotalStock() (int64, error)
	CountBelow(threshold int) (int64, error)
	DistinctCategories() ([]string, error)
	DistinctStorageAreas() ([]string, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// WithTx returns a repository bound to an open database transaction.
func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Model(&model.Product{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.StorageArea != "" {
		q = q.Where("storage_area = ?", filter.StorageArea)
	}
	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at < ?", *filter.CreatedTo)
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByName matches the name exactly (case-sensitive).
func (r *productRepo) FindByName(name string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update writes the descriptive fields. Quantity only moves through the
// stock methods below.
func (r *productRepo) Update(product *model.Product) error {
	return r.db.Model(product).
		Select("name", "category", "storage_area", "image_url", "description", "unit", "updated_by", "updated_at").
		Updates(product).Error
}

// Delete soft-deletes the product so transactions can still resolve it.
func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) IncrementStock(id uuid.UUID, qty int, updatedBy string) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		}).Error
}

// DecrementStockIfSufficient subtracts qty only when the stored quantity
// covers it. The check and the write are a single statement, so concurrent
// dispatches cannot both pass against the same units.
func (r *productRepo) DecrementStockIfSufficient(id uuid.UUID, qty int, updatedBy string) (bool, error) {
	res := r.db.Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) SetStock(id uuid.UUID, qty int, updatedBy string) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   qty,
			"updated_by": updatedBy,
			"updated_at": time.Now(),
		}).Error
}

func (r *productRepo) CountByCategory() ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.Model(&model.Product{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS quantity").
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *productRepo) TotalStock() (int64, error) {
	var total int64
	err := r.db.Model(&model.Product{}).Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error
	return total, err
}

func (r *productRepo) CountBelow(threshold int) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("quantity < ?", threshold).Count(&count).Error
	return count, err
}

func (r *productRepo) DistinctCategories() ([]string, error) {
	var out []string
	err := r.db.Model(&model.Product{}).Distinct("category").Order("category ASC").Pluck("category", &out).Error
	return out, err
}

func (r *productRepo) DistinctStorageAreas() ([]string, error) {
	var out []string
	err := r.db.Model(&model.Product{}).Distinct("storage_area").Order("storage_area ASC").Pluck("storage_area", &out).Error
	return out, err
}
