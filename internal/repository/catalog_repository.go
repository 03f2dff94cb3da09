package repository

import (
	"context"

	"github.com/avergara/mantencion-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GardenRepository defines the interface for garden data access
type GardenRepository interface {
	FindAll(ctx context.Context) ([]models.Garden, error)
	FindByCode(ctx context.Context, code string) (*models.Garden, error)
	Create(ctx context.Context, garden *models.Garden) error
	CreateIgnoreDuplicate(ctx context.Context, garden *models.Garden) error
}

type gardenRepository struct {
	db *gorm.DB
}

// NewGardenRepository creates a new garden repository
func NewGardenRepository(db *gorm.DB) GardenRepository {
	return &gardenRepository{db: db}
}

func (r *gardenRepository) FindAll(ctx context.Context) ([]models.Garden, error) {
	var gardens []models.Garden
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&gardens).Error
	return gardens, err
}

func (r *gardenRepository) FindByCode(ctx context.Context, code string) (*models.Garden, error) {
	var garden models.Garden
	err := r.db.WithContext(ctx).Where("codigo = ?", code).First(&garden).Error
	if err != nil {
		return nil, err
	}
	return &garden, nil
}

func (r *gardenRepository) Create(ctx context.Context, garden *models.Garden) error {
	return r.db.WithContext(ctx).Create(garden).Error
}

// CreateIgnoreDuplicate inserts the garden, silently keeping the existing row
// when the code is already present (catalog import semantics).
func (r *gardenRepository) CreateIgnoreDuplicate(ctx context.Context, garden *models.Garden) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(garden).Error
}

// LineItemRepository defines the interface for catalog line item data access
type LineItemRepository interface {
	FindAll(ctx context.Context) ([]models.LineItem, error)
	FindByCode(ctx context.Context, code string) (*models.LineItem, error)
	Create(ctx context.Context, item *models.LineItem) error
	CreateIgnoreDuplicate(ctx context.Context, item *models.LineItem) error
}

type lineItemRepository struct {
	db *gorm.DB
}

// NewLineItemRepository creates a new line item repository
func NewLineItemRepository(db *gorm.DB) LineItemRepository {
	return &lineItemRepository{db: db}
}

func (r *lineItemRepository) FindAll(ctx context.Context) ([]models.LineItem, error) {
	var items []models.LineItem
	err := r.db.WithContext(ctx).Order("item ASC").Find(&items).Error
	return items, err
}

func (r *lineItemRepository) FindByCode(ctx context.Context, code string) (*models.LineItem, error) {
	var item models.LineItem
	err := r.db.WithContext(ctx).Where("item = ?", code).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *lineItemRepository) Create(ctx context.Context, item *models.LineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *lineItemRepository) CreateIgnoreDuplicate(ctx context.Context, item *models.LineItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item).Error
}

// SiteRepository defines the interface for site (recinto) data access
type SiteRepository interface {
	FindAll(ctx context.Context) ([]models.Site, error)
	FindByGarden(ctx context.Context, gardenCode string) ([]models.Site, error)
	Create(ctx context.Context, site *models.Site) error
}

type siteRepository struct {
	db *gorm.DB
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) FindAll(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&sites).Error
	return sites, err
}

func (r *siteRepository) FindByGarden(ctx context.Context, gardenCode string) ([]models.Site, error) {
	var sites []models.Site
	err := r.db.WithContext(ctx).
		Where("jardin_codigo = ?", gardenCode).
		Order("nombre ASC").
		Find(&sites).Error
	return sites, err
}

func (r *siteRepository) Create(ctx context.Context, site *models.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}
