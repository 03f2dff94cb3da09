package repository

import (
	"context"

	"github.com/avergara/mantencion-api/internal/models"
	"gorm.io/gorm"
)

// ConfigRepository defines the interface for contract configuration access
type ConfigRepository interface {
	Get(ctx context.Context) (*models.ContractConfig, error)
	UpdateFields(ctx context.Context, fields map[string]interface{}) error
	Save(ctx context.Context, cfg *models.ContractConfig) error
}

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new contract configuration repository
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) Get(ctx context.Context) (*models.ContractConfig, error) {
	var cfg models.ContractConfig
	err := r.db.WithContext(ctx).First(&cfg, models.ContractConfigID).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *configRepository) UpdateFields(ctx context.Context, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.ContractConfig{}).
		Where("id = ?", models.ContractConfigID).
		Updates(fields).Error
}

func (r *configRepository) Save(ctx context.Context, cfg *models.ContractConfig) error {
	cfg.ID = models.ContractConfigID
	return r.db.WithContext(ctx).Save(cfg).Error
}
