package service

import (
	"agritrack-api/internal/model"
	"agritrack-api/internal/repository"

	"gorm.io/gorm"
)

// stockChange describes one movement applied to a product row.
type stockChange struct {
	Type     model.TransactionType
	Quantity int
	Remarks  string
}

// applyStockChange mutates the product quantity and writes the matching
// transaction. It must run inside tx; product is refreshed in place.
func applyStockChange(tx *gorm.DB, products repository.ProductRepository, transactions repository.TransactionRepository,
	product *model.Product, change stockChange, actor Actor) (*model.Transaction, error) {

	p := products.WithTx(tx)
	previous := product.Quantity

	switch change.Type {
	case model.TxDispatch:
		if change.Quantity > product.Quantity {
			return nil, ErrInsufficientStock
		}
		ok, err := p.DecrementStockIfSufficient(product.ID, change.Quantity, actor.Ref())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInsufficientStock
		}
	case model.TxAdd:
		if err := p.IncrementStock(product.ID, change.Quantity, actor.Ref()); err != nil {
			return nil, err
		}
	case model.TxUpdate:
		if err := p.SetStock(product.ID, change.Quantity, actor.Ref()); err != nil {
			return nil, err
		}
	default:
		return nil, validationErrorf("Invalid transaction type: %s", change.Type)
	}

	current, err := p.FindByID(product.ID)
	if err != nil {
		return nil, err
	}

	// Derive the previous quantity from the row we actually wrote so the
	// record stays consistent when another request touched it first.
	switch change.Type {
	case model.TxDispatch:
		previous = current.Quantity + change.Quantity
	case model.TxAdd:
		previous = current.Quantity - change.Quantity
	}

	record := &model.Transaction{
		ProductID:        product.ID,
		Type:             change.Type,
		Quantity:         change.Quantity,
		PreviousQuantity: previous,
		NewQuantity:      current.Quantity,
		UserID:           actor.ID,
		Remarks:          change.Remarks,
	}
	record.CreatedBy = actor.Ref()
	record.UpdatedBy = actor.Ref()
	if err := transactions.WithTx(tx).Create(record); err != nil {
		return nil, err
	}

	*product = *current
	return record, nil
}
