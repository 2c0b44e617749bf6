package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TxAdd      TransactionType = "add"
	TxDispatch TransactionType = "dispatch"
	TxUpdate   TransactionType = "update"
	TxDelete   TransactionType = "delete"
)

// TransactionTypes lists every type a stored transaction may carry.
var TransactionTypes = []TransactionType{TxAdd, TxDispatch, TxUpdate, TxDelete}

func (t TransactionType) Valid() bool {
	for _, v := range TransactionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Transaction is an immutable record of a stock-affecting action.
type Transaction struct {
	BaseModel
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Product          *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Type             TransactionType `gorm:"type:varchar(20);not null;index" json:"type"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	PreviousQuantity int             `gorm:"not null;default:0" json:"previousQuantity"`
	NewQuantity      int             `gorm:"not null;default:0" json:"newQuantity"`
	UserID           uuid.UUID       `gorm:"type:uuid;index" json:"userId"`
	User             *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Timestamp        time.Time       `gorm:"not null;index" json:"timestamp"`
	Remarks          string          `gorm:"type:text" json:"remarks,omitempty"`
}
