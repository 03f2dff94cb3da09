package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/avergara/mantencion-api/internal/repository"
	"gorm.io/gorm"
)

// ConfigService manages the singleton contract configuration
type ConfigService struct {
	configRepo repository.ConfigRepository
}

// NewConfigService creates a new contract configuration service
func NewConfigService(configRepo repository.ConfigRepository) *ConfigService {
	return &ConfigService{configRepo: configRepo}
}

// Get returns the contract configuration with the signature as a data URI
func (s *ConfigService) Get(ctx context.Context) (*models.ContractConfigResponse, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := cfg.ToResponse()
	return &resp, nil
}

// UpdateConfigInput is a partial changeset for the contract configuration
type UpdateConfigInput struct {
	Title             *string `json:"titulo"`
	Contractor        *string `json:"contratista"`
	CorrelativePrefix *string `json:"prefijo_correlativo"`
	InspectorName     *string `json:"ito_nombre"`
}

// Update edits the contract text fields. The correlative prefix may change at
// any time; existing codes keep the prefix they were generated with.
func (s *ConfigService) Update(ctx context.Context, input UpdateConfigInput) (*models.ContractConfigResponse, error) {
	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["titulo"] = strings.TrimSpace(*input.Title)
	}
	if input.Contractor != nil {
		fields["contratista"] = strings.TrimSpace(*input.Contractor)
	}
	if input.CorrelativePrefix != nil {
		prefix := strings.TrimSpace(*input.CorrelativePrefix)
		if prefix == "" {
			return nil, NewValidationError("el prefijo correlativo no puede estar vacío")
		}
		fields["prefijo_correlativo"] = prefix
	}
	if input.InspectorName != nil {
		fields["ito_nombre"] = *input.InspectorName
	}

	if len(fields) > 0 {
		if err := s.configRepo.UpdateFields(ctx, fields); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx)
}

// SetSignature stores the inspector signature from its base64 encoding. A
// data URI prefix is accepted and stripped.
func (s *ConfigService) SetSignature(ctx context.Context, encoded string) error {
	encoded = strings.TrimSpace(encoded)
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	if encoded == "" {
		return NewValidationError("la firma no puede estar vacía")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return NewParseError("firma base64 inválida", err)
	}

	return s.configRepo.UpdateFields(ctx, map[string]interface{}{
		"firma_png": raw,
	})
}

// GetSignature returns the stored signature base64 encoded, or nil when no
// signature has been loaded.
func (s *ConfigService) GetSignature(ctx context.Context) (*string, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(cfg.SignaturePNG) == 0 {
		return nil, nil
	}
	encoded := base64.StdEncoding.EncodeToString(cfg.SignaturePNG)
	return &encoded, nil
}
