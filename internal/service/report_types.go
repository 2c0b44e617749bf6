package service

import (
	"encoding/json"
	"time"

	"agritrack-api/internal/model"

	"github.com/google/uuid"
)

type InventoryReportFilter struct {
	StartDate   string `json:"startDate,omitempty" query:"startDate"`
	EndDate     string `json:"endDate,omitempty" query:"endDate"`
	Category    string `json:"category,omitempty" query:"category"`
	StorageArea string `json:"storageArea,omitempty" query:"storageArea"`
}

type TransactionReportFilter struct {
	StartDate string `json:"startDate,omitempty" query:"startDate"`
	EndDate   string `json:"endDate,omitempty" query:"endDate"`
	Type      string `json:"type,omitempty" query:"type" validate:"omitempty,oneof=add dispatch update delete"`
	UserID    string `json:"userId,omitempty" query:"userId" validate:"omitempty,uuid"`
	ProductID string `json:"productId,omitempty" query:"productId" validate:"omitempty,uuid"`
}

type ProductLine struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	StorageArea string    `json:"storageArea"`
	Quantity    int       `json:"quantity"`
	Unit        string    `json:"unit,omitempty"`
}

// GroupTotal counts rows and sums quantities for one group key.
type GroupTotal struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Quantity int    `json:"quantity"`
}

type InventorySummary struct {
	TotalProducts    int `json:"totalProducts"`
	TotalQuantity    int `json:"totalQuantity"`
	LowStockCount    int `json:"lowStockCount"`
	OutOfStockCount  int `json:"outOfStockCount"`
	CategoryCount    int `json:"categoryCount"`
	StorageAreaCount int `json:"storageAreaCount"`
}

type InventoryReport struct {
	ReportID      uuid.UUID             `json:"reportId"`
	Type          model.ReportType      `json:"type"`
	GeneratedAt   time.Time             `json:"generatedAt"`
	Filters       InventoryReportFilter `json:"filters"`
	Summary       InventorySummary      `json:"summary"`
	ByCategory    []GroupTotal          `json:"byCategory"`
	ByStorageArea []GroupTotal          `json:"byStorageArea"`
	LowStock      []ProductLine         `json:"lowStock"`
	OutOfStock    []ProductLine         `json:"outOfStock"`
	Products      []ProductLine         `json:"products"`
}

type TransactionLine struct {
	ID               uuid.UUID             `json:"id"`
	Timestamp        time.Time             `json:"timestamp"`
	Type             model.TransactionType `json:"type"`
	Quantity         int                   `json:"quantity"`
	PreviousQuantity int                   `json:"previousQuantity"`
	NewQuantity      int                   `json:"newQuantity"`
	ProductID        uuid.UUID             `json:"productId"`
	ProductName      string                `json:"productName"`
	UserID           uuid.UUID             `json:"userId"`
	UserName         string                `json:"userName"`
	Remarks          string                `json:"remarks,omitempty"`
}

type DayTotal struct {
	Date       string `json:"date"`
	Count      int    `json:"count"`
	Added      int    `json:"added"`
	Dispatched int    `json:"dispatched"`
	Updated    int    `json:"updated"`
	Deleted    int    `json:"deleted"`
}

type TransactionSummary struct {
	TotalTransactions int `json:"totalTransactions"`
	TotalAdded        int `json:"totalAdded"`
	TotalDispatched   int `json:"totalDispatched"`
	TotalUpdated      int `json:"totalUpdated"`
	TotalDeleted      int `json:"totalDeleted"`
	UniqueProducts    int `json:"uniqueProducts"`
	UniqueUsers       int `json:"uniqueUsers"`
}

type TransactionReport struct {
	ReportID     uuid.UUID               `json:"reportId"`
	Type         model.ReportType        `json:"type"`
	GeneratedAt  time.Time               `json:"generatedAt"`
	Filters      TransactionReportFilter `json:"filters"`
	Summary      TransactionSummary      `json:"summary"`
	ByType       []GroupTotal            `json:"byType"`
	ByDay        []DayTotal              `json:"byDay"`
	ByUser       []GroupTotal            `json:"byUser"`
	ByProduct    []GroupTotal            `json:"byProduct"`
	Transactions []TransactionLine       `json:"transactions"`
}

type NamedOption struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type UserOption struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
}

type FilterOptions struct {
	Categories       []string                `json:"categories"`
	StorageAreas     []string                `json:"storageAreas"`
	Users            []UserOption            `json:"users"`
	Products         []NamedOption           `json:"products"`
	TransactionTypes []model.TransactionType `json:"transactionTypes"`
}

// ReportView is a stored report with its payload. Replayed is set when the
// payload was rebuilt from current data instead of read from the snapshot.
type ReportView struct {
	model.Report
	Replayed bool            `json:"replayed"`
	Data     json.RawMessage `json:"data"`
}
