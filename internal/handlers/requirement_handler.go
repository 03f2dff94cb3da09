package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avergara/mantencion-api/internal/services"
)

type RequirementHandler struct {
	requirementService *services.RequirementService
	exportService      *services.ExportService
}

func NewRequirementHandler(requirementService *services.RequirementService, exportService *services.ExportService) *RequirementHandler {
	return &RequirementHandler{
		requirementService: requirementService,
		exportService:      exportService,
	}
}

// Index lists every requirement with derived fields
func (h *RequirementHandler) Index(c *gin.Context) {
	reqs, err := h.requirementService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requerimientos": reqs})
}

// Show returns one requirement
func (h *RequirementHandler) Show(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	req, err := h.requirementService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requerimiento": req})
}

// Create registers a new requirement
func (h *RequirementHandler) Create(c *gin.Context) {
	var input services.CreateRequirementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requirementService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"requerimiento": req})
}

// Update applies a partial changeset
func (h *RequirementHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var input services.UpdateRequirementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requirementService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requerimiento": req})
}

// Delete removes a requirement
func (h *RequirementHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.requirementService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Requerimiento eliminado"})
}

// SetReception records the reception date
func (h *RequirementHandler) SetReception(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var input struct {
		ReceptionDate string `json:"fecha_recepcion" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requirementService.SetReception(c.Request.Context(), id, input.ReceptionDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requerimiento": req})
}

// ClearReception removes the reception date
func (h *RequirementHandler) ClearReception(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	req, err := h.requirementService.ClearReception(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requerimiento": req})
}

// ExportCSV streams every requirement as a CSV download
func (h *RequirementHandler) ExportCSV(c *gin.Context) {
	data, err := h.exportService.RequirementsCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	filename := "requerimientos_" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// parseID reads the :id path parameter, answering 400 on garbage
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return 0, err
	}
	return uint(id), nil
}
