package model

import "gorm.io/gorm"

// LowStockThreshold is the quantity below which a product is flagged as low stock.
const LowStockThreshold = 10

type Product struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_products_name,where:deleted_at IS NULL" json:"name"`
	Category    string `gorm:"type:varchar(100);index;not null" json:"category"`
	Quantity    int    `gorm:"not null;default:0" json:"quantity"`
	StorageArea string `gorm:"type:varchar(100);index;not null" json:"storageArea"`
	ImageURL    string `gorm:"type:varchar(500)" json:"imageUrl,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Unit        string `gorm:"type:varchar(20);default:'pcs'" json:"unit,omitempty"`

	// Soft delete keeps the row for transaction history; names are unique
	// among live products only.
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy string         `gorm:"type:varchar(64)" json:"-"`
}

func (p *Product) IsLowStock() bool {
	return p.Quantity < LowStockThreshold
}

func (p *Product) IsOutOfStock() bool {
	return p.Quantity == 0
}
