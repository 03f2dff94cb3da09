package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avergara/mantencion-api/internal/services"
)

type ConfigHandler struct {
	configService *services.ConfigService
}

func NewConfigHandler(configService *services.ConfigService) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

// Show returns the contract configuration
func (h *ConfigHandler) Show(c *gin.Context) {
	cfg, err := h.configService.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"configuracion": cfg})
}

// Update edits the contract configuration text fields
func (h *ConfigHandler) Update(c *gin.Context) {
	var input services.UpdateConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.configService.Update(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"configuracion": cfg})
}

// SetSignature stores the inspector signature from its base64 encoding
func (h *ConfigHandler) SetSignature(c *gin.Context) {
	var input struct {
		Signature string `json:"firma" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.configService.SetSignature(c.Request.Context(), input.Signature); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Firma guardada"})
}

// GetSignature returns the stored signature base64 encoded
func (h *ConfigHandler) GetSignature(c *gin.Context) {
	encoded, err := h.configService.GetSignature(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"firma": encoded})
}
