package services

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/avergara/mantencion-api/internal/repository"
	"github.com/avergara/mantencion-api/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportService handles database snapshot restores and catalog bulk loads
type ImportService struct {
	db *gorm.DB
}

// NewImportService creates a new import service
func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{db: db}
}

// record is one raw snapshot row. Keys may come in snake_case or camelCase
// depending on which frontend exported the file, so lookups try aliases.
type record map[string]json.RawMessage

func (r record) raw(keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func (r record) str(keys ...string) *string {
	v, ok := r.raw(keys...)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil
	}
	return &s
}

func (r record) f64(keys ...string) float64 {
	v, ok := r.raw(keys...)
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		// Some exports carry numbers as strings
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return 0
		}
		f, _ = strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return f
}

func (r record) i(keys ...string) int {
	return int(r.f64(keys...))
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ImportSummary reports how many rows of each kind were restored
type ImportSummary struct {
	Gardens      int    `json:"jardines"`
	LineItems    int    `json:"partidas"`
	Sites        int    `json:"recintos"`
	WorkOrders   int    `json:"ordenes_trabajo"`
	Reports      int    `json:"informes_pago"`
	Requirements int    `json:"requerimientos"`
	Message      string `json:"mensaje"`
}

// ImportDatabase restores a full snapshot: existing data is wiped and every
// section is loaded in dependency order, all within one transaction. A failed
// import leaves the previous data untouched.
func (s *ImportService) ImportDatabase(ctx context.Context, data []byte) (*ImportSummary, error) {
	var root record
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, NewParseError("el archivo no es un respaldo válido", err)
	}

	summary := &ImportSummary{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := wipeBusinessData(tx); err != nil {
			return err
		}

		if err := importGardens(ctx, tx, sectionOf(root, "jardines"), summary); err != nil {
			return err
		}
		if err := importLineItems(ctx, tx, sectionOf(root, "partidas"), summary); err != nil {
			return err
		}
		if err := importSites(tx, sectionOf(root, "recintos"), summary); err != nil {
			return err
		}

		orderIDs, err := importWorkOrders(tx, sectionOf(root, "ordenes_trabajo", "ordenesTrabajo"), summary)
		if err != nil {
			return err
		}
		reportIDs, err := importReports(tx, sectionOf(root, "informes_pago", "informesPago"), summary)
		if err != nil {
			return err
		}
		if err := importRequirements(tx, sectionOf(root, "requerimientos"), orderIDs, reportIDs, summary); err != nil {
			return err
		}

		return importConfig(tx, root)
	})
	if err != nil {
		return nil, err
	}

	summary.Message = fmt.Sprintf(
		"Importación completada: %d jardines, %d partidas, %d recintos, %d órdenes de trabajo, %d informes de pago, %d requerimientos",
		summary.Gardens, summary.LineItems, summary.Sites,
		summary.WorkOrders, summary.Reports, summary.Requirements,
	)
	return summary, nil
}

func sectionOf(root record, keys ...string) []record {
	v, ok := root.raw(keys...)
	if !ok {
		return nil
	}
	var rows []record
	if err := json.Unmarshal(v, &rows); err != nil {
		return nil
	}
	return rows
}

// wipeBusinessData deletes every business row in FK-safe order. The contract
// configuration row survives and is overwritten afterwards if the snapshot
// carries one.
func wipeBusinessData(tx *gorm.DB) error {
	tables := []string{
		"informes_pago",
		"requerimientos",
		"ordenes_trabajo",
		"recintos",
		"partidas",
		"jardines",
	}
	for _, table := range tables {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func importGardens(ctx context.Context, tx *gorm.DB, rows []record, summary *ImportSummary) error {
	repo := repository.NewGardenRepository(tx)
	for _, row := range rows {
		code := row.str("codigo")
		name := row.str("nombre")
		if code == nil || name == nil || *code == "" {
			continue
		}
		if err := repo.CreateIgnoreDuplicate(ctx, &models.Garden{Code: *code, Name: *name}); err != nil {
			return err
		}
		summary.Gardens++
	}
	return nil
}

func importLineItems(ctx context.Context, tx *gorm.DB, rows []record, summary *ImportSummary) error {
	repo := repository.NewLineItemRepository(tx)
	for _, row := range rows {
		code := row.str("item")
		name := row.str("partida", "nombre")
		if code == nil || name == nil || *code == "" {
			continue
		}
		item := &models.LineItem{
			Code:      *code,
			Name:      *name,
			Unit:      row.str("unidad"),
			UnitPrice: row.f64("precio_unitario", "precioUnitario"),
		}
		if err := repo.CreateIgnoreDuplicate(ctx, item); err != nil {
			return err
		}
		summary.LineItems++
	}
	return nil
}

func importSites(tx *gorm.DB, rows []record, summary *ImportSummary) error {
	for _, row := range rows {
		gardenCode := row.str("jardin_codigo", "jardinCodigo")
		name := row.str("nombre")
		if gardenCode == nil || name == nil {
			continue
		}
		site := &models.Site{GardenCode: *gardenCode, Name: *name}
		if err := tx.Create(site).Error; err != nil {
			return err
		}
		summary.Sites++
	}
	return nil
}

func importWorkOrders(tx *gorm.DB, rows []record, summary *ImportSummary) (map[string]uint, error) {
	ids := make(map[string]uint, len(rows))
	for _, row := range rows {
		code := row.str("codigo")
		gardenCode := row.str("jardin_codigo", "jardinCodigo")
		if code == nil || gardenCode == nil || *code == "" {
			continue
		}
		order := &models.WorkOrder{
			Code:         *code,
			GardenCode:   *gardenCode,
			CreationDate: strOrEmpty(row.str("fecha_creacion", "fechaCreacion")),
			Notes:        row.str("observaciones"),
		}
		if err := tx.Create(order).Error; err != nil {
			return nil, err
		}
		ids[*code] = order.ID
		summary.WorkOrders++
	}
	return ids, nil
}

func importReports(tx *gorm.DB, rows []record, summary *ImportSummary) (map[string]uint, error) {
	ids := make(map[string]uint, len(rows))
	for _, row := range rows {
		code := row.str("codigo")
		gardenCode := row.str("jardin_codigo", "jardinCodigo")
		if code == nil || gardenCode == nil || *code == "" {
			continue
		}
		report := &models.PaymentReport{
			Code:         *code,
			GardenCode:   *gardenCode,
			CreationDate: strOrEmpty(row.str("fecha_creacion", "fechaCreacion")),
			Net:          row.f64("neto"),
			Utility:      row.f64("utilidades"),
			Tax:          row.f64("iva"),
			Total:        row.f64("total_final", "totalFinal"),
			Notes:        row.str("observaciones"),
		}
		if err := tx.Create(report).Error; err != nil {
			return nil, err
		}
		ids[*code] = report.ID
		summary.Reports++
	}
	return ids, nil
}

// importRequirements restores requirements, resolving aggregate links through
// the business codes of the snapshot. A requirement carrying both codes lands
// in the payment report; the state is always derived from the resolved links.
func importRequirements(tx *gorm.DB, rows []record, orderIDs, reportIDs map[string]uint, summary *ImportSummary) error {
	for _, row := range rows {
		gardenCode := row.str("jardin_codigo", "jardinCodigo")
		lineItemCode := row.str("partida_item", "partidaItem")
		if gardenCode == nil || lineItemCode == nil {
			continue
		}

		req := &models.Requirement{
			GardenCode:       *gardenCode,
			Site:             row.str("recinto"),
			LineItemCode:     *lineItemCode,
			Quantity:         row.f64("cantidad"),
			UnitPrice:        row.f64("precio_unitario", "precioUnitario"),
			TotalPrice:       row.f64("precio_total", "precioTotal"),
			StartDate:        strOrEmpty(row.str("fecha_inicio", "fechaInicio")),
			RegistrationDate: strOrEmpty(row.str("fecha_registro", "fechaRegistro")),
			BaseTermDays:     row.i("plazo_dias", "plazoDias"),
			ExtraTermDays:    row.i("plazo_adicional", "plazoAdicional"),
			ReceptionDate:    row.str("fecha_recepcion", "fechaRecepcion"),
			Penalty:          row.f64("multa"),
			Description:      row.str("descripcion"),
			Notes:            row.str("observaciones"),
			Status:           models.RequirementStatusPending,
		}
		if req.TotalPrice == 0 {
			req.TotalPrice = req.Quantity * req.UnitPrice
		}

		if code := row.str("informe_codigo", "informeCodigo"); code != nil {
			if id, ok := reportIDs[*code]; ok {
				req.PaymentReportID = &id
				req.Status = models.RequirementStatusInReport
			}
		}
		if req.PaymentReportID == nil {
			if code := row.str("ot_codigo", "otCodigo"); code != nil {
				if id, ok := orderIDs[*code]; ok {
					req.WorkOrderID = &id
					req.Status = models.RequirementStatusInOrder
				}
			}
		}

		if err := tx.Create(req).Error; err != nil {
			return err
		}
		summary.Requirements++
	}
	return nil
}

// importConfig overwrites the contract configuration from the snapshot when
// present. A malformed signature is skipped rather than failing the restore.
func importConfig(tx *gorm.DB, root record) error {
	v, ok := root.raw("configuracion_contrato", "configuracion")
	if !ok {
		return nil
	}
	var row record
	if err := json.Unmarshal(v, &row); err != nil {
		return nil
	}

	fields := map[string]interface{}{}
	if title := row.str("titulo"); title != nil {
		fields["titulo"] = *title
	}
	if contractor := row.str("contratista"); contractor != nil {
		fields["contratista"] = *contractor
	}
	if prefix := row.str("prefijo_correlativo", "prefijoCorrelativo"); prefix != nil && *prefix != "" {
		fields["prefijo_correlativo"] = *prefix
	}
	if inspector := row.str("ito_nombre", "itoNombre"); inspector != nil {
		fields["ito_nombre"] = *inspector
	}
	if encoded := row.str("ito_firma_base64", "itoFirmaBase64"); encoded != nil {
		raw, err := decodeSignature(*encoded)
		if err != nil {
			logger.Warn("Firma del respaldo descartada", "error", err)
		} else if len(raw) > 0 {
			fields["firma_png"] = raw
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return tx.Model(&models.ContractConfig{}).
		Where("id = ?", models.ContractConfigID).
		Updates(fields).Error
}

func decodeSignature(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	if encoded == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// CatalogSummary reports how many catalog rows were loaded
type CatalogSummary struct {
	Gardens   int    `json:"jardines"`
	LineItems int    `json:"partidas"`
	Sites     int    `json:"recintos"`
	Message   string `json:"mensaje"`
}

// ImportCatalogJSON loads gardens, line items and sites from a JSON document.
// Existing rows are kept; duplicates in the file are silently skipped.
func (s *ImportService) ImportCatalogJSON(ctx context.Context, data []byte) (*CatalogSummary, error) {
	var root record
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, NewParseError("el archivo no es un catálogo válido", err)
	}

	summary := &CatalogSummary{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		imp := &ImportSummary{}
		if err := importGardens(ctx, tx, sectionOf(root, "jardines"), imp); err != nil {
			return err
		}
		if err := importLineItems(ctx, tx, sectionOf(root, "partidas"), imp); err != nil {
			return err
		}
		if err := importSites(tx, sectionOf(root, "recintos"), imp); err != nil {
			return err
		}
		summary.Gardens = imp.Gardens
		summary.LineItems = imp.LineItems
		summary.Sites = imp.Sites
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Message = fmt.Sprintf("Catálogo cargado: %d jardines, %d partidas, %d recintos",
		summary.Gardens, summary.LineItems, summary.Sites)
	return summary, nil
}

// Catalog CSV kinds
const (
	CatalogKindGardens   = "jardines"
	CatalogKindLineItems = "partidas"
)

// ImportCatalogCSV loads one catalog kind from a CSV stream. Gardens expect
// codigo,nombre; line items expect item,partida,unidad,precio_unitario. The
// first row is treated as a header when it does not look like data.
func (s *ImportService) ImportCatalogCSV(ctx context.Context, kind string, r io.Reader) (*CatalogSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, NewParseError("CSV inválido", err)
	}

	summary := &CatalogSummary{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch kind {
		case CatalogKindGardens:
			repo := repository.NewGardenRepository(tx)
			for i, row := range rows {
				if len(row) < 2 {
					continue
				}
				code := strings.TrimSpace(row[0])
				name := strings.TrimSpace(row[1])
				if code == "" || name == "" {
					continue
				}
				if i == 0 && strings.EqualFold(code, "codigo") {
					continue
				}
				if err := repo.CreateIgnoreDuplicate(ctx, &models.Garden{Code: code, Name: name}); err != nil {
					return err
				}
				summary.Gardens++
			}
		case CatalogKindLineItems:
			repo := repository.NewLineItemRepository(tx)
			for i, row := range rows {
				if len(row) < 2 {
					continue
				}
				code := strings.TrimSpace(row[0])
				name := strings.TrimSpace(row[1])
				if code == "" || name == "" {
					continue
				}
				if i == 0 && strings.EqualFold(code, "item") {
					continue
				}
				item := &models.LineItem{Code: code, Name: name}
				if len(row) > 2 {
					if unit := strings.TrimSpace(row[2]); unit != "" {
						item.Unit = &unit
					}
				}
				if len(row) > 3 {
					item.UnitPrice, _ = strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
				}
				if err := repo.CreateIgnoreDuplicate(ctx, item); err != nil {
					return err
				}
				summary.LineItems++
			}
		default:
			return NewValidationError("tipo de catálogo desconocido: " + kind)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Message = fmt.Sprintf("Catálogo cargado: %d jardines, %d partidas",
		summary.Gardens, summary.LineItems)
	return summary, nil
}

// ImportCatalogXLSX replaces the whole catalog from a spreadsheet with
// jardines, partidas and recintos sheets, plus an optional configuracion
// sheet of key/value pairs.
func (s *ImportService) ImportCatalogXLSX(ctx context.Context, r io.Reader) (*CatalogSummary, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewParseError("planilla inválida", err)
	}
	defer book.Close()

	summary := &CatalogSummary{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A spreadsheet load replaces the catalog wholesale
		for _, table := range []string{"recintos", "partidas", "jardines"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}

		if rows, err := book.GetRows("jardines"); err == nil {
			for i, row := range rows {
				if i == 0 || len(row) < 2 {
					continue
				}
				code := strings.TrimSpace(row[0])
				name := strings.TrimSpace(row[1])
				if code == "" || name == "" {
					continue
				}
				if err := repository.NewGardenRepository(tx).CreateIgnoreDuplicate(ctx, &models.Garden{Code: code, Name: name}); err != nil {
					return err
				}
				summary.Gardens++
			}
		}

		if rows, err := book.GetRows("partidas"); err == nil {
			for i, row := range rows {
				if i == 0 || len(row) < 2 {
					continue
				}
				code := strings.TrimSpace(row[0])
				name := strings.TrimSpace(row[1])
				if code == "" || name == "" {
					continue
				}
				item := &models.LineItem{Code: code, Name: name}
				if len(row) > 2 {
					if unit := strings.TrimSpace(row[2]); unit != "" {
						item.Unit = &unit
					}
				}
				if len(row) > 3 {
					item.UnitPrice, _ = strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
				}
				if err := repository.NewLineItemRepository(tx).CreateIgnoreDuplicate(ctx, item); err != nil {
					return err
				}
				summary.LineItems++
			}
		}

		if rows, err := book.GetRows("recintos"); err == nil {
			for i, row := range rows {
				if i == 0 || len(row) < 2 {
					continue
				}
				gardenCode := strings.TrimSpace(row[0])
				name := strings.TrimSpace(row[1])
				if gardenCode == "" || name == "" {
					continue
				}
				if err := tx.Create(&models.Site{GardenCode: gardenCode, Name: name}).Error; err != nil {
					return err
				}
				summary.Sites++
			}
		}

		if rows, err := book.GetRows("configuracion"); err == nil {
			fields := map[string]interface{}{}
			for _, row := range rows {
				if len(row) < 2 {
					continue
				}
				key := strings.ToLower(strings.TrimSpace(row[0]))
				value := strings.TrimSpace(row[1])
				switch key {
				case "titulo", "contratista", "ito_nombre":
					fields[key] = value
				case "prefijo_correlativo", "prefijo":
					if value != "" {
						fields["prefijo_correlativo"] = value
					}
				}
			}
			if len(fields) > 0 {
				if err := tx.Model(&models.ContractConfig{}).
					Where("id = ?", models.ContractConfigID).
					Updates(fields).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Message = fmt.Sprintf("Catálogo cargado: %d jardines, %d partidas, %d recintos",
		summary.Gardens, summary.LineItems, summary.Sites)
	return summary, nil
}

// ClearAll wipes every business row, keeping the contract configuration
func (s *ImportService) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return wipeBusinessData(tx)
	})
}
