package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avergara/mantencion-api/internal/services"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListGardens returns the garden catalog
func (h *CatalogHandler) ListGardens(c *gin.Context) {
	gardens, err := h.catalogService.ListGardens(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jardines": gardens})
}

// CreateGarden registers a new garden
func (h *CatalogHandler) CreateGarden(c *gin.Context) {
	var input services.CreateGardenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	garden, err := h.catalogService.CreateGarden(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"jardin": garden})
}

// ListLineItems returns the line item catalog
func (h *CatalogHandler) ListLineItems(c *gin.Context) {
	items, err := h.catalogService.ListLineItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partidas": items})
}

// CreateLineItem registers a new line item
func (h *CatalogHandler) CreateLineItem(c *gin.Context) {
	var input services.CreateLineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.catalogService.CreateLineItem(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"partida": item})
}

// ListSites returns sites, optionally filtered by ?jardin_codigo=
func (h *CatalogHandler) ListSites(c *gin.Context) {
	sites, err := h.catalogService.ListSites(c.Request.Context(), c.Query("jardin_codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recintos": sites})
}

// ListGardenSites returns the sites of one garden
func (h *CatalogHandler) ListGardenSites(c *gin.Context) {
	sites, err := h.catalogService.ListSites(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recintos": sites})
}

// CreateSite registers a new site under a garden
func (h *CatalogHandler) CreateSite(c *gin.Context) {
	var input services.CreateSiteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	site, err := h.catalogService.CreateSite(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recinto": site})
}
