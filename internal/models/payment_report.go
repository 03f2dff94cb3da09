package models

import (
	"time"
)

// PaymentReport (informe de pago) bundles received requirements of one garden
// and stores the computed financial breakdown.
type PaymentReport struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"column:codigo;uniqueIndex;not null" json:"codigo"`
	GardenCode   string    `gorm:"column:jardin_codigo;not null;index" json:"jardin_codigo"`
	CreationDate string    `gorm:"column:fecha_creacion;not null" json:"fecha_creacion"`
	Net          float64   `gorm:"column:neto;not null;default:0" json:"neto"`
	Utility      float64   `gorm:"column:utilidades;not null;default:0" json:"utilidades"`
	Tax          float64   `gorm:"column:iva;not null;default:0" json:"iva"`
	Total        float64   `gorm:"column:total_final;not null;default:0" json:"total_final"`
	Notes        *string   `gorm:"column:observaciones;type:text" json:"observaciones"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Requirements []Requirement `gorm:"foreignKey:PaymentReportID" json:"-"`
}

// TableName specifies the table name for PaymentReport
func (PaymentReport) TableName() string {
	return "informes_pago"
}

// Financial rates applied to every payment report
const (
	UtilityRate = 0.10
	TaxRate     = 0.19
)

// ComputeTotals fills neto/utilidades/iva/total_final from the net amount:
// utilidades = 10% of neto, iva = 19% of (neto + utilidades).
func (p *PaymentReport) ComputeTotals(net float64) {
	p.Net = net
	p.Utility = net * UtilityRate
	subtotal := p.Net + p.Utility
	p.Tax = subtotal * TaxRate
	p.Total = subtotal + p.Tax
}

// PaymentReportResponse is the list/detail JSON shape including the garden
// name and the member count.
type PaymentReportResponse struct {
	ID               uint      `json:"id"`
	Code             string    `json:"codigo"`
	GardenCode       string    `json:"jardin_codigo"`
	GardenName       *string   `json:"jardin_nombre"`
	CreationDate     string    `json:"fecha_creacion"`
	Net              float64   `json:"neto"`
	Utility          float64   `json:"utilidades"`
	Tax              float64   `json:"iva"`
	Total            float64   `json:"total_final"`
	RequirementCount int64     `json:"cantidad_requerimientos"`
	Notes            *string   `json:"observaciones"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
