package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReportType string

const (
	ReportInventory   ReportType = "inventory"
	ReportTransaction ReportType = "transaction"
)

// Report records one generation of a report. Snapshot holds the full payload
// as it was computed, Summary a compact subset for listings.
type Report struct {
	BaseModel
	Type            ReportType     `gorm:"type:varchar(20);not null;index" json:"type"`
	GeneratedAt     time.Time      `gorm:"not null;index" json:"generatedAt"`
	GeneratedBy     uuid.UUID      `gorm:"type:uuid;index" json:"generatedBy"`
	GeneratedByName string         `gorm:"type:varchar(255)" json:"generatedByName,omitempty"`
	Filters         datatypes.JSON `json:"filters"`
	Summary         datatypes.JSON `json:"summary"`
	Snapshot        datatypes.JSON `json:"-"`
}
