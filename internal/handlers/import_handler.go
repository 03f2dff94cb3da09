package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avergara/mantencion-api/internal/services"
)

type ImportHandler struct {
	importService *services.ImportService
}

func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Database restores a full JSON snapshot, replacing all business data
func (h *ImportHandler) Database(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		return
	}

	summary, err := h.importService.ImportDatabase(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CatalogJSON loads gardens, line items and sites from a JSON document
func (h *ImportHandler) CatalogJSON(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		return
	}

	summary, err := h.importService.ImportCatalogJSON(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CatalogCSV loads one catalog kind from CSV, selected by ?tipo=
func (h *ImportHandler) CatalogCSV(c *gin.Context) {
	kind := c.DefaultQuery("tipo", services.CatalogKindGardens)

	file, err := uploadReader(c)
	if err != nil {
		return
	}
	defer file.Close()

	summary, err := h.importService.ImportCatalogCSV(c.Request.Context(), kind, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CatalogXLSX replaces the catalog from a spreadsheet
func (h *ImportHandler) CatalogXLSX(c *gin.Context) {
	file, err := uploadReader(c)
	if err != nil {
		return
	}
	defer file.Close()

	summary, err := h.importService.ImportCatalogXLSX(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ClearAll wipes every business row
func (h *ImportHandler) ClearAll(c *gin.Context) {
	if err := h.importService.ClearAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Datos eliminados"})
}

// uploadReader opens the multipart "file" field, falling back to the raw body
func uploadReader(c *gin.Context) (io.ReadCloser, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if c.Request.Body != nil {
			return c.Request.Body, nil
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "archivo no recibido"})
		return nil, err
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no se pudo leer el archivo"})
		return nil, err
	}
	return file, nil
}

func readUpload(c *gin.Context) ([]byte, error) {
	file, err := uploadReader(c)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no se pudo leer el archivo"})
		return nil, err
	}
	return data, nil
}
