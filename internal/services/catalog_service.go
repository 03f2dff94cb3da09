package services

import (
	"context"
	"errors"
	"strings"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/avergara/mantencion-api/internal/repository"
	"gorm.io/gorm"
)

// CatalogService manages the gardens, line items and sites catalog
type CatalogService struct {
	gardenRepo   repository.GardenRepository
	lineItemRepo repository.LineItemRepository
	siteRepo     repository.SiteRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(gardenRepo repository.GardenRepository, lineItemRepo repository.LineItemRepository, siteRepo repository.SiteRepository) *CatalogService {
	return &CatalogService{
		gardenRepo:   gardenRepo,
		lineItemRepo: lineItemRepo,
		siteRepo:     siteRepo,
	}
}

// ListGardens returns every garden ordered by name
func (s *CatalogService) ListGardens(ctx context.Context) ([]models.Garden, error) {
	return s.gardenRepo.FindAll(ctx)
}

// CreateGardenInput carries the fields to register a garden
type CreateGardenInput struct {
	Code string `json:"codigo" binding:"required"`
	Name string `json:"nombre" binding:"required"`
}

// CreateGarden registers a new garden in the catalog
func (s *CatalogService) CreateGarden(ctx context.Context, input CreateGardenInput) (*models.Garden, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, NewValidationError("código y nombre del jardín son obligatorios")
	}

	if _, err := s.gardenRepo.FindByCode(ctx, code); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	garden := &models.Garden{Code: code, Name: name}
	if err := s.gardenRepo.Create(ctx, garden); err != nil {
		return nil, err
	}
	return garden, nil
}

// ListLineItems returns every catalog line item ordered by code
func (s *CatalogService) ListLineItems(ctx context.Context) ([]models.LineItem, error) {
	return s.lineItemRepo.FindAll(ctx)
}

// CreateLineItemInput carries the fields to register a line item
type CreateLineItemInput struct {
	Code      string  `json:"item" binding:"required"`
	Name      string  `json:"partida" binding:"required"`
	Unit      *string `json:"unidad"`
	UnitPrice float64 `json:"precio_unitario"`
}

// CreateLineItem registers a new line item in the catalog
func (s *CatalogService) CreateLineItem(ctx context.Context, input CreateLineItemInput) (*models.LineItem, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, NewValidationError("item y nombre de la partida son obligatorios")
	}
	if input.UnitPrice < 0 {
		return nil, NewValidationError("el precio unitario no puede ser negativo")
	}

	if _, err := s.lineItemRepo.FindByCode(ctx, code); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &models.LineItem{
		Code:      code,
		Name:      name,
		Unit:      input.Unit,
		UnitPrice: input.UnitPrice,
	}
	if err := s.lineItemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListSites returns every site, optionally filtered by garden code
func (s *CatalogService) ListSites(ctx context.Context, gardenCode string) ([]models.Site, error) {
	if gardenCode == "" {
		return s.siteRepo.FindAll(ctx)
	}
	return s.siteRepo.FindByGarden(ctx, gardenCode)
}

// CreateSiteInput carries the fields to register a site within a garden
type CreateSiteInput struct {
	GardenCode string `json:"jardin_codigo" binding:"required"`
	Name       string `json:"nombre" binding:"required"`
}

// CreateSite registers a new site under an existing garden
func (s *CatalogService) CreateSite(ctx context.Context, input CreateSiteInput) (*models.Site, error) {
	gardenCode := strings.TrimSpace(input.GardenCode)
	name := strings.TrimSpace(input.Name)
	if gardenCode == "" || name == "" {
		return nil, NewValidationError("jardín y nombre del recinto son obligatorios")
	}

	if _, err := s.gardenRepo.FindByCode(ctx, gardenCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGardenNotFound
		}
		return nil, err
	}

	site := &models.Site{GardenCode: gardenCode, Name: name}
	if err := s.siteRepo.Create(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}
