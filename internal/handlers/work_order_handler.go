package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avergara/mantencion-api/internal/services"
)

type WorkOrderHandler struct {
	workOrderService *services.WorkOrderService
}

func NewWorkOrderHandler(workOrderService *services.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{workOrderService: workOrderService}
}

// Index lists every work order
func (h *WorkOrderHandler) Index(c *gin.Context) {
	orders, err := h.workOrderService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ordenes_trabajo": orders})
}

// Show returns one work order with its requirements
func (h *WorkOrderHandler) Show(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	order, err := h.workOrderService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orden_trabajo": order})
}

// Create generates a new work order with its correlative code
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var input services.CreateWorkOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.workOrderService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orden_trabajo": order})
}

// Update edits a work order, optionally replacing its membership
func (h *WorkOrderHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var input services.UpdateWorkOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.workOrderService.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orden_trabajo": order})
}

// Delete removes a work order, releasing its requirements
func (h *WorkOrderHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := h.workOrderService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Orden de trabajo eliminada"})
}
