package models

import (
	"encoding/base64"
	"time"
)

// ContractConfig is the singleton contract configuration row (id = 1). The
// inspector signature is stored as opaque PNG bytes and only ever exposed
// base64 encoded.
type ContractConfig struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Title             string    `gorm:"column:titulo;not null" json:"titulo"`
	Contractor        string    `gorm:"column:contratista;not null" json:"contratista"`
	CorrelativePrefix string    `gorm:"column:prefijo_correlativo;not null" json:"prefijo_correlativo"`
	InspectorName     *string   `gorm:"column:ito_nombre" json:"ito_nombre"`
	SignaturePNG      []byte    `gorm:"column:firma_png" json:"-"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for ContractConfig
func (ContractConfig) TableName() string {
	return "configuracion_contrato"
}

// ContractConfigID is the fixed primary key of the singleton row
const ContractConfigID = 1

// ContractConfigResponse carries the signature as a data URI, ready for an
// <img> tag.
type ContractConfigResponse struct {
	ID                uint    `json:"id"`
	Title             string  `json:"titulo"`
	Contractor        string  `json:"contratista"`
	CorrelativePrefix string  `json:"prefijo_correlativo"`
	InspectorName     *string `json:"ito_nombre"`
	SignatureDataURI  *string `json:"ito_firma_base64"`
}

// ToResponse converts ContractConfig to its JSON response
func (c *ContractConfig) ToResponse() ContractConfigResponse {
	resp := ContractConfigResponse{
		ID:                c.ID,
		Title:             c.Title,
		Contractor:        c.Contractor,
		CorrelativePrefix: c.CorrelativePrefix,
		InspectorName:     c.InspectorName,
	}
	if len(c.SignaturePNG) > 0 {
		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(c.SignaturePNG)
		resp.SignatureDataURI = &uri
	}
	return resp
}
