package models

import (
	"time"
)

// WorkOrder (orden de trabajo) bundles requirements of a single garden for
// dispatch. Its code is generated by the correlative service and never reused.
type WorkOrder struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"column:codigo;uniqueIndex;not null" json:"codigo"`
	GardenCode   string    `gorm:"column:jardin_codigo;not null;index" json:"jardin_codigo"`
	CreationDate string    `gorm:"column:fecha_creacion;not null" json:"fecha_creacion"`
	Notes        *string   `gorm:"column:observaciones;type:text" json:"observaciones"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Requirements []Requirement `gorm:"foreignKey:WorkOrderID" json:"-"`
}

// TableName specifies the table name for WorkOrder
func (WorkOrder) TableName() string {
	return "ordenes_trabajo"
}

// WorkOrderResponse is the list/detail JSON shape including the garden name
// and the member count.
type WorkOrderResponse struct {
	ID               uint      `json:"id"`
	Code             string    `json:"codigo"`
	GardenCode       string    `json:"jardin_codigo"`
	GardenName       *string   `json:"jardin_nombre"`
	CreationDate     string    `json:"fecha_creacion"`
	RequirementCount int64     `json:"cantidad_requerimientos"`
	Notes            *string   `json:"observaciones"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
