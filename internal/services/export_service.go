package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/avergara/mantencion-api/internal/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportService produces the requirement CSV export and payment report PDFs
type ExportService struct {
	requirementRepo repository.RequirementRepository
	reportService   *PaymentReportService
	configRepo      repository.ConfigRepository
}

// NewExportService creates a new export service
func NewExportService(requirementRepo repository.RequirementRepository, reportService *PaymentReportService, configRepo repository.ConfigRepository) *ExportService {
	return &ExportService{
		requirementRepo: requirementRepo,
		reportService:   reportService,
		configRepo:      configRepo,
	}
}

// RequirementsCSV exports every requirement, enriched fields included
func (s *ExportService) RequirementsCSV(ctx context.Context) ([]byte, error) {
	reqs, err := s.requirementRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "jardin", "recinto", "partida_item", "partida", "unidad",
		"cantidad", "precio_unitario", "precio_total",
		"fecha_inicio", "fecha_registro", "plazo_total", "fecha_limite",
		"fecha_recepcion", "dias_atraso", "multa", "a_pago",
		"estado", "ot_codigo", "informe_codigo",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range reqs {
		resp := reqs[i].ToResponse()
		row := []string{
			strconv.FormatUint(uint64(resp.ID), 10),
			resp.GardenCode,
			strOrEmpty(resp.Site),
			resp.LineItemCode,
			strOrEmpty(resp.LineItemName),
			strOrEmpty(resp.LineItemUnit),
			formatAmount(resp.Quantity),
			formatAmount(resp.UnitPrice),
			formatAmount(resp.TotalPrice),
			resp.StartDate,
			resp.RegistrationDate,
			strconv.Itoa(resp.TotalTerm),
			strOrEmpty(resp.Deadline),
			strOrEmpty(resp.ReceptionDate),
			strconv.Itoa(resp.DelayDays),
			formatAmount(resp.Penalty),
			formatAmount(resp.AmountPayable),
			resp.Status,
			strOrEmpty(resp.WorkOrderCode),
			strOrEmpty(resp.PaymentReportCode),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PaymentReportPDF renders a payment report: contract header, one line per
// requirement, the financial breakdown and the inspector signature when one
// is loaded.
func (s *ExportService) PaymentReportPDF(ctx context.Context, id uint) ([]byte, error) {
	detail, err := s.reportService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(cfg.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr("Contratista: "+cfg.Contractor), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, tr("Informe de Pago "+detail.Code), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	garden := detail.GardenCode
	if detail.GardenName != nil {
		garden = fmt.Sprintf("%s (%s)", *detail.GardenName, detail.GardenCode)
	}
	pdf.CellFormat(0, 6, tr("Jardín: "+garden), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Fecha: "+detail.CreationDate), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Table header
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(20, 7, tr("Ítem"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 7, tr("Partida"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, tr("Cant."), "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, tr("Recepción"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, tr("Multa"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, tr("A Pago"), "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, req := range detail.Requirements {
		pdf.CellFormat(20, 6, tr(req.LineItemCode), "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, tr(strOrEmpty(req.LineItemName)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, formatAmount(req.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, strOrEmpty(req.ReceptionDate), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, formatAmount(req.Penalty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, formatAmount(req.AmountPayable), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals block, right aligned
	totals := []struct {
		label string
		value float64
	}{
		{"Neto", detail.Net},
		{"Utilidades (10%)", detail.Utility},
		{"IVA (19%)", detail.Tax},
		{"Total", detail.Total},
	}
	for i, t := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(130, 6, "", "", 0, "", false, 0, "")
		pdf.CellFormat(30, 6, tr(t.label), "", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, formatAmount(t.value), "", 1, "R", false, 0, "")
	}

	if len(cfg.SignaturePNG) > 0 {
		pdf.Ln(10)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("firma", opts, bytes.NewReader(cfg.SignaturePNG))
		x := (210.0 - 50.0) / 2
		pdf.ImageOptions("firma", x, pdf.GetY(), 50, 0, true, opts, 0, "")
	}
	if cfg.InspectorName != nil && *cfg.InspectorName != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(*cfg.InspectorName), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, tr("Inspector Técnico de Obras"), "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatAmount renders a number without trailing decimal noise
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
