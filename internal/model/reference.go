package model

import "github.com/google/uuid"

type StorageArea struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Location    string `gorm:"type:varchar(255)" json:"location,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Capacity    int    `gorm:"default:0" json:"capacity" validate:"gte=0"`
}

type Barangay struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Municipality string `gorm:"type:varchar(100)" json:"municipality,omitempty"`
	Province     string `gorm:"type:varchar(100)" json:"province,omitempty"`
}

type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (s StorageArea) ReferenceName() string { return s.Name }
func (b Barangay) ReferenceName() string    { return b.Name }
func (c Category) ReferenceName() string    { return c.Name }

func (s StorageArea) ReferenceID() uuid.UUID { return s.ID }
func (b Barangay) ReferenceID() uuid.UUID    { return b.ID }
func (c Category) ReferenceID() uuid.UUID    { return c.ID }

// Default reference data seeded on start-up
var DefaultCategories = []Category{
	{Name: "Seeds", Description: "Planting seeds and seedlings"},
	{Name: "Fertilizers", Description: "Organic and inorganic fertilizers"},
	{Name: "Pesticides", Description: "Insecticides, herbicides and fungicides"},
	{Name: "Feeds", Description: "Livestock and poultry feeds"},
	{Name: "Tools", Description: "Hand tools and small equipment"},
	{Name: "Equipment", Description: "Machinery and large equipment"},
}

var DefaultStorageAreas = []StorageArea{
	{Name: "Warehouse A", Location: "Main compound", Description: "Dry goods storage"},
	{Name: "Warehouse B", Location: "Main compound", Description: "Chemicals and fertilizers"},
	{Name: "Cold Storage", Location: "Annex", Description: "Temperature-controlled storage"},
}

var DefaultBarangays = []Barangay{
	{Name: "Poblacion"},
	{Name: "San Isidro"},
	{Name: "San Jose"},
	{Name: "Santa Cruz"},
}
