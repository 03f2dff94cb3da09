package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avergara/mantencion-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health        *HealthHandler
	Catalog       *CatalogHandler
	Requirement   *RequirementHandler
	WorkOrder     *WorkOrderHandler
	PaymentReport *PaymentReportHandler
	Config        *ConfigHandler
	Import        *ImportHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:        NewHealthHandler(),
		Catalog:       NewCatalogHandler(svcs.Catalog),
		Requirement:   NewRequirementHandler(svcs.Requirement, svcs.Export),
		WorkOrder:     NewWorkOrderHandler(svcs.WorkOrder),
		PaymentReport: NewPaymentReportHandler(svcs.PaymentReport, svcs.Export),
		Config:        NewConfigHandler(svcs.Config),
		Import:        NewImportHandler(svcs.Import),
	}
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var parseErr *services.ParseError

	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrNotFound.Error()})
	case errors.Is(err, services.ErrDuplicate), errors.Is(err, services.ErrRequirementLinked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGardenNotFound),
		errors.Is(err, services.ErrLineItemNotFound),
		errors.Is(err, services.ErrEmptySelection),
		errors.Is(err, services.ErrMissingReception),
		errors.Is(err, services.ErrAlreadyInReport),
		errors.Is(err, services.ErrInvalidState),
		errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
