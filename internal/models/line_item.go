package models

import (
	"time"
)

// LineItem is a catalog entry (partida): a unit of billable work with a
// default unit price. The price on the item is only a default; each
// requirement carries its own editable copy.
type LineItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"column:item;uniqueIndex;not null" json:"item"`
	Name      string    `gorm:"column:partida;not null" json:"partida"`
	Unit      *string   `gorm:"column:unidad" json:"unidad"`
	UnitPrice float64   `gorm:"column:precio_unitario;not null;default:0" json:"precio_unitario"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for LineItem
func (LineItem) TableName() string {
	return "partidas"
}
