package models

import (
	"time"
)

// Garden represents a managed garden (jardín) under the maintenance contract.
// Gardens are referenced everywhere by their business code, not by ID.
type Garden struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"column:codigo;uniqueIndex;not null" json:"codigo"`
	Name      string    `gorm:"column:nombre;not null" json:"nombre"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Garden
func (Garden) TableName() string {
	return "jardines"
}

// Site represents a location (recinto) inside a garden
type Site struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GardenCode string    `gorm:"column:jardin_codigo;not null;index" json:"jardin_codigo"`
	Name       string    `gorm:"column:nombre;not null" json:"nombre"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Site
func (Site) TableName() string {
	return "recintos"
}
