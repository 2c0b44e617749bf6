package service

import (
	"errors"
	"fmt"
	"strings"

	"agritrack-api/internal/metrics"
	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionService interface {
	GetTransactions(filter repository.TransactionFilter) ([]model.Transaction, error)
	GetTransaction(id uuid.UUID) (*model.Transaction, error)
	CreateTransaction(req *CreateTransactionRequest, actor Actor) (*model.Transaction, error)
}

// CreateTransactionRequest moves stock. "update" sets the quantity outright;
// "add" and "dispatch" move it by Quantity.
type CreateTransactionRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Type      string `json:"type" validate:"required,oneof=add dispatch update"`
	Quantity  *int   `json:"quantity" validate:"required,gte=0"`
	Remarks   string `json:"remarks" validate:"max=500"`
}

type transactionService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	sideEffects
}

func NewTransactionService(db *gorm.DB, productRepo repository.ProductRepository, transactionRepo repository.TransactionRepository,
	audit ActivityRecorder, notifier Notifier) TransactionService {
	return &transactionService{
		db:              db,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		sideEffects:     sideEffects{audit: audit, notifier: notifier},
	}
}

func (s *transactionService) GetTransactions(filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.transactionRepo.FindAll(filter)
}

func (s *transactionService) GetTransaction(id uuid.UUID) (*model.Transaction, error) {
	tx, err := s.transactionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (s *transactionService) CreateTransaction(req *CreateTransactionRequest, actor Actor) (*model.Transaction, error) {
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.Remarks = strings.TrimSpace(req.Remarks)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	txType := model.TransactionType(req.Type)
	if txType != model.TxUpdate && *req.Quantity == 0 {
		return nil, validationErrorf("quantity must be greater than 0")
	}
	productID, _ := uuid.Parse(req.ProductID)

	var (
		product model.Product
		record  *model.Transaction
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		found, err := s.productRepo.WithTx(tx).FindByID(productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		product = *found
		record, err = applyStockChange(tx, s.productRepo, s.transactionRepo, &product,
			stockChange{Type: txType, Quantity: *req.Quantity, Remarks: req.Remarks}, actor)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			s.record(actor, model.ActionCreateTransaction, "transaction", req.ProductID,
				fmt.Sprintf("Dispatch of %d rejected: insufficient stock", *req.Quantity), model.ActivityFailed)
		}
		return nil, err
	}

	metrics.StockTransactions.WithLabelValues(string(txType)).Inc()
	s.record(actor, model.ActionCreateTransaction, "transaction", record.ID.String(),
		fmt.Sprintf("%s %d of %s (%d -> %d)", txType, record.Quantity, product.Name, record.PreviousQuantity, record.NewQuantity),
		model.ActivitySuccess)

	if full, err := s.transactionRepo.FindByID(record.ID); err == nil {
		record = full
	} else {
		record.Product = &product
	}
	s.publish(ws.Event{Type: "transaction", Action: string(txType), Data: record, User: actor.eventUser(),
		Message: fmt.Sprintf("%s: %s x%d", txType, product.Name, record.Quantity)})

	return record, nil
}
