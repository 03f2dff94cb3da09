package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avergara/mantencion-api/internal/services"
)

type PaymentReportHandler struct {
	reportService *services.PaymentReportService
	exportService *services.ExportService
}

func NewPaymentReportHandler(reportService *services.PaymentReportService, exportService *services.ExportService) *PaymentReportHandler {
	return &PaymentReportHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// Index lists every payment report
func (h *PaymentReportHandler) Index(c *gin.Context) {
	reports, err := h.reportService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"informes_pago": reports})
}

// Show returns one payment report with its requirements
func (h *PaymentReportHandler) Show(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	report, err := h.reportService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"informe_pago": report})
}

// Candidates lists the requirements of a garden eligible for a new report
func (h *PaymentReportHandler) Candidates(c *gin.Context) {
	reqs, err := h.reportService.Candidates(c.Request.Context(), c.Query("jardin_codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requerimientos": reqs})
}

// Create generates a new payment report with its correlative code and totals
func (h *PaymentReportHandler) Create(c *gin.Context) {
	var input services.CreatePaymentReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"informe_pago": report})
}

// Update edits a payment report, optionally replacing its membership
func (h *PaymentReportHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var input services.UpdatePaymentReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"informe_pago": report})
}

// Delete removes a payment report, releasing its requirements
func (h *PaymentReportHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.reportService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Informe de pago eliminado"})
}

// PDF streams the printable payment report
func (h *PaymentReportHandler) PDF(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	data, err := h.exportService.PaymentReportPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename=informe_pago.pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}
