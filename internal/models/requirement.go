package models

import (
	"time"
)

// DateLayout is the wire format for all business dates (date only, no time).
const DateLayout = "2006-01-02"

// Requirement is one unit of requested maintenance work against a garden and
// a catalog line item. It is the only mutable entity of the system: it moves
// between aggregates (work orders, payment reports) through its estado field.
type Requirement struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	GardenCode       string  `gorm:"column:jardin_codigo;not null;index" json:"jardin_codigo"`
	Site             *string `gorm:"column:recinto" json:"recinto"`
	LineItemCode     string  `gorm:"column:partida_item;not null;index" json:"partida_item"`
	Quantity         float64 `gorm:"column:cantidad;not null;default:0" json:"cantidad"`
	UnitPrice        float64 `gorm:"column:precio_unitario;not null;default:0" json:"precio_unitario"`
	TotalPrice       float64 `gorm:"column:precio_total;not null;default:0" json:"precio_total"`
	StartDate        string  `gorm:"column:fecha_inicio;not null" json:"fecha_inicio"`
	RegistrationDate string  `gorm:"column:fecha_registro;not null" json:"fecha_registro"`
	BaseTermDays     int     `gorm:"column:plazo_dias;not null;default:0" json:"plazo_dias"`
	ExtraTermDays    int     `gorm:"column:plazo_adicional;not null;default:0" json:"plazo_adicional"`
	ReceptionDate    *string `gorm:"column:fecha_recepcion" json:"fecha_recepcion"`
	Penalty          float64 `gorm:"column:multa;not null;default:0" json:"multa"`
	Description      *string `gorm:"column:descripcion;type:text" json:"descripcion"`
	Notes            *string `gorm:"column:observaciones;type:text" json:"observaciones"`
	Status           string  `gorm:"column:estado;not null;default:pendiente;index" json:"estado"`
	WorkOrderID      *uint   `gorm:"column:ot_id;index" json:"ot_id"`
	PaymentReportID  *uint   `gorm:"column:informe_pago_id;index" json:"informe_pago_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	LineItem      *LineItem      `gorm:"foreignKey:LineItemCode;references:Code" json:"-"`
	WorkOrder     *WorkOrder     `gorm:"foreignKey:WorkOrderID" json:"-"`
	PaymentReport *PaymentReport `gorm:"foreignKey:PaymentReportID" json:"-"`
}

// TableName specifies the table name for Requirement
func (Requirement) TableName() string {
	return "requerimientos"
}

// Requirement status constants
const (
	RequirementStatusPending  = "pendiente"
	RequirementStatusInOrder  = "en_ot"
	RequirementStatusInReport = "en_informe"
)

// TotalTerm returns the contractual term in days (base + additional)
func (r *Requirement) TotalTerm() int {
	return r.BaseTermDays + r.ExtraTermDays
}

// Deadline returns fecha_inicio + plazo_total, or nil when no term applies
// or the start date is unparseable.
func (r *Requirement) Deadline() *string {
	total := r.TotalTerm()
	if total <= 0 {
		return nil
	}
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return nil
	}
	d := start.AddDate(0, 0, total).Format(DateLayout)
	return &d
}

// DelayDays returns how many days the reception date exceeds the deadline,
// floored at zero. Without a reception date or deadline there is no delay.
func (r *Requirement) DelayDays() int {
	if r.ReceptionDate == nil {
		return 0
	}
	deadline := r.Deadline()
	if deadline == nil {
		return 0
	}
	limit, err := time.Parse(DateLayout, *deadline)
	if err != nil {
		return 0
	}
	received, err := time.Parse(DateLayout, *r.ReceptionDate)
	if err != nil {
		return 0
	}
	if !limit.Before(received) {
		return 0
	}
	return int(received.Sub(limit).Hours() / 24)
}

// AmountPayable returns precio_total minus the penalty
func (r *Requirement) AmountPayable() float64 {
	return r.TotalPrice - r.Penalty
}

// HasReception returns true once a reception date is recorded
func (r *Requirement) HasReception() bool {
	return r.ReceptionDate != nil
}

// MayEnterOrder returns true if the requirement can be linked to a work order
func (r *Requirement) MayEnterOrder() bool {
	return r.Status == RequirementStatusPending
}

// MayEnterReport returns true if the requirement can be linked to a payment
// report: it must have been received and must not already sit in a report.
func (r *Requirement) MayEnterReport() bool {
	return r.HasReception() && r.PaymentReportID == nil
}

// RequirementResponse is the enriched JSON shape: base fields plus catalog
// names, aggregate codes and every derived field, computed at read time.
type RequirementResponse struct {
	ID                uint    `json:"id"`
	GardenCode        string  `json:"jardin_codigo"`
	Site              *string `json:"recinto"`
	LineItemCode      string  `json:"partida_item"`
	LineItemName      *string `json:"partida_nombre"`
	LineItemUnit      *string `json:"partida_unidad"`
	UnitPrice         float64 `json:"precio_unitario"`
	Quantity          float64 `json:"cantidad"`
	TotalPrice        float64 `json:"precio_total"`
	StartDate         string  `json:"fecha_inicio"`
	BaseTermDays      int     `json:"plazo_dias"`
	ExtraTermDays     int     `json:"plazo_adicional"`
	TotalTerm         int     `json:"plazo_total"`
	Deadline          *string `json:"fecha_limite"`
	RegistrationDate  string  `json:"fecha_registro"`
	ReceptionDate     *string `json:"fecha_recepcion"`
	DelayDays         int     `json:"dias_atraso"`
	Penalty           float64 `json:"multa"`
	AmountPayable     float64 `json:"a_pago"`
	Description       *string `json:"descripcion"`
	Notes             *string `json:"observaciones"`
	Status            string  `json:"estado"`
	WorkOrderID       *uint   `json:"ot_id"`
	WorkOrderCode     *string `json:"ot_codigo"`
	PaymentReportID   *uint   `json:"informe_pago_id"`
	PaymentReportCode *string `json:"informe_pago_codigo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts a Requirement (with associations preloaded) into its
// enriched response.
func (r *Requirement) ToResponse() RequirementResponse {
	resp := RequirementResponse{
		ID:               r.ID,
		GardenCode:       r.GardenCode,
		Site:             r.Site,
		LineItemCode:     r.LineItemCode,
		UnitPrice:        r.UnitPrice,
		Quantity:         r.Quantity,
		TotalPrice:       r.TotalPrice,
		StartDate:        r.StartDate,
		BaseTermDays:     r.BaseTermDays,
		ExtraTermDays:    r.ExtraTermDays,
		TotalTerm:        r.TotalTerm(),
		Deadline:         r.Deadline(),
		RegistrationDate: r.RegistrationDate,
		ReceptionDate:    r.ReceptionDate,
		DelayDays:        r.DelayDays(),
		Penalty:          r.Penalty,
		AmountPayable:    r.AmountPayable(),
		Description:      r.Description,
		Notes:            r.Notes,
		Status:           r.Status,
		WorkOrderID:      r.WorkOrderID,
		PaymentReportID:  r.PaymentReportID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}

	if r.LineItem != nil {
		resp.LineItemName = &r.LineItem.Name
		resp.LineItemUnit = r.LineItem.Unit
	}
	if r.WorkOrder != nil {
		resp.WorkOrderCode = &r.WorkOrder.Code
	}
	if r.PaymentReport != nil {
		resp.PaymentReportCode = &r.PaymentReport.Code
	}

	return resp
}
