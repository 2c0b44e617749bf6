package repository

import (
	"time"

	"agritrack-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows transaction listings. Zero values are ignored.
type TransactionFilter struct {
	Type      model.TransactionType
	ProductID *uuid.UUID
	UserID    *uuid.UUID
	From      *time.Time
	To        *time.Time // exclusive
	Limit     int
}

type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	Create(transaction *model.Transaction) error
	FindAll(filter TransactionFilter) ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindRecent(limit int) ([]model.Transaction, error)
	SumQuantityByType(txType model.TransactionType) (int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{tx}
}

func (r *transactionRepo) Create(transaction *model.Transaction) error {
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}
	return r.db.Create(transaction).Error
}

func (r *transactionRepo) FindAll(filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction
	q := r.db.Preload("Product", withDeleted).Preload("User")
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		q = q.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("timestamp < ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Order("timestamp DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.Preload("Product", withDeleted).Preload("User").First(&transaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// withDeleted lets history rows resolve soft-deleted products.
func withDeleted(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

func (r *transactionRepo) FindRecent(limit int) ([]model.Transaction, error) {
	return r.FindAll(TransactionFilter{Limit: limit})
}

func (r *transactionRepo) SumQuantityByType(txType model.TransactionType) (int64, error) {
	var total int64
	err := r.db.Model(&model.Transaction{}).
		Where("type = ?", txType).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}
