package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityStatus string

const (
	ActivitySuccess ActivityStatus = "success"
	ActivityFailed  ActivityStatus = "failed"
	ActivityPending ActivityStatus = "pending"
)

// Activity actions written by the controllers.
const (
	ActionLogin             = "LOGIN"
	ActionRegister          = "REGISTER"
	ActionUpdateUser        = "UPDATE_USER"
	ActionCreateProduct     = "CREATE_PRODUCT"
	ActionUpdateProduct     = "UPDATE_PRODUCT"
	ActionDeleteProduct     = "DELETE_PRODUCT"
	ActionImportProducts    = "IMPORT_PRODUCTS"
	ActionExportProducts    = "EXPORT_PRODUCTS"
	ActionCreateTransaction = "CREATE_TRANSACTION"
	ActionGenerateReport    = "GENERATE_REPORT"
	ActionCreateReference   = "CREATE_REFERENCE"
	ActionUpdateReference   = "UPDATE_REFERENCE"
	ActionDeleteReference   = "DELETE_REFERENCE"
)

// ActivityLog is an append-only audit record.
type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	UserID     *uuid.UUID     `gorm:"type:uuid;index" json:"userId,omitempty"`
	UserName   string         `gorm:"type:varchar(255)" json:"user"`
	Action     string         `gorm:"type:varchar(50);not null;index" json:"action"`
	Details    string         `gorm:"type:text" json:"details"`
	Status     ActivityStatus `gorm:"type:varchar(20);not null;default:'success'" json:"status"`
	Resource   string         `gorm:"type:varchar(50);index" json:"resource"`
	ResourceID string         `gorm:"type:varchar(64)" json:"resourceId,omitempty"`
	IPAddress  string         `gorm:"type:varchar(45)" json:"ipAddress,omitempty"`
}

func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	if l.Status == "" {
		l.Status = ActivitySuccess
	}
	return nil
}
