package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/avergara/mantencion-api/internal/repository"
	"gorm.io/gorm"
)

// RequirementService manages the requirement lifecycle
type RequirementService struct {
	requirementRepo repository.RequirementRepository
	gardenRepo      repository.GardenRepository
	lineItemRepo    repository.LineItemRepository
}

// NewRequirementService creates a new requirement service
func NewRequirementService(requirementRepo repository.RequirementRepository, gardenRepo repository.GardenRepository, lineItemRepo repository.LineItemRepository) *RequirementService {
	return &RequirementService{
		requirementRepo: requirementRepo,
		gardenRepo:      gardenRepo,
		lineItemRepo:    lineItemRepo,
	}
}

// List returns every requirement enriched with catalog and aggregate data,
// newest start date first.
func (s *RequirementService) List(ctx context.Context) ([]models.RequirementResponse, error) {
	reqs, err := s.requirementRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(reqs), nil
}

// Get returns a single requirement by ID
func (s *RequirementService) Get(ctx context.Context, id uint) (*models.RequirementResponse, error) {
	req, err := s.requirementRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := req.ToResponse()
	return &resp, nil
}

// CreateRequirementInput carries the fields to register a requirement
type CreateRequirementInput struct {
	GardenCode       string  `json:"jardin_codigo" binding:"required"`
	Site             *string `json:"recinto"`
	LineItemCode     string  `json:"partida_item" binding:"required"`
	Quantity         float64 `json:"cantidad" binding:"required"`
	UnitPrice        float64 `json:"precio_unitario"`
	StartDate        string  `json:"fecha_inicio" binding:"required"`
	RegistrationDate string  `json:"fecha_registro"`
	BaseTermDays     int     `json:"plazo_dias"`
	ExtraTermDays    int     `json:"plazo_adicional"`
	Penalty          float64 `json:"multa"`
	Description      *string `json:"descripcion"`
	Notes            *string `json:"observaciones"`
}

// Create registers a new requirement in pending state. The total price is
// always computed here, never taken from the caller.
func (s *RequirementService) Create(ctx context.Context, input CreateRequirementInput) (*models.RequirementResponse, error) {
	if input.Quantity <= 0 {
		return nil, NewValidationError("la cantidad debe ser mayor que cero")
	}
	if input.UnitPrice < 0 {
		return nil, NewValidationError("el precio unitario no puede ser negativo")
	}
	if input.BaseTermDays < 0 || input.ExtraTermDays < 0 {
		return nil, NewValidationError("los plazos no pueden ser negativos")
	}
	if input.Penalty < 0 {
		return nil, NewValidationError("la multa no puede ser negativa")
	}
	if _, err := time.Parse(models.DateLayout, input.StartDate); err != nil {
		return nil, NewParseError("fecha_inicio inválida", err)
	}

	registration := input.RegistrationDate
	if registration == "" {
		registration = time.Now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, registration); err != nil {
		return nil, NewParseError("fecha_registro inválida", err)
	}

	if _, err := s.gardenRepo.FindByCode(ctx, input.GardenCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGardenNotFound
		}
		return nil, err
	}
	if _, err := s.lineItemRepo.FindByCode(ctx, input.LineItemCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLineItemNotFound
		}
		return nil, err
	}

	req := &models.Requirement{
		GardenCode:       input.GardenCode,
		Site:             input.Site,
		LineItemCode:     input.LineItemCode,
		Quantity:         input.Quantity,
		UnitPrice:        input.UnitPrice,
		TotalPrice:       input.Quantity * input.UnitPrice,
		StartDate:        input.StartDate,
		RegistrationDate: registration,
		BaseTermDays:     input.BaseTermDays,
		ExtraTermDays:    input.ExtraTermDays,
		Penalty:          input.Penalty,
		Description:      input.Description,
		Notes:            input.Notes,
		Status:           models.RequirementStatusPending,
	}
	if err := s.requirementRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	return s.Get(ctx, req.ID)
}

// UpdateRequirementInput is a partial changeset: nil fields stay untouched
type UpdateRequirementInput struct {
	Site          *string  `json:"recinto"`
	Quantity      *float64 `json:"cantidad"`
	UnitPrice     *float64 `json:"precio_unitario"`
	StartDate     *string  `json:"fecha_inicio"`
	BaseTermDays  *int     `json:"plazo_dias"`
	ExtraTermDays *int     `json:"plazo_adicional"`
	Penalty       *float64 `json:"multa"`
	Description   *string  `json:"descripcion"`
	Notes         *string  `json:"observaciones"`
}

// Update applies a partial changeset. When quantity or unit price change the
// total price is recomputed from the resulting pair.
func (s *RequirementService) Update(ctx context.Context, id uint, input UpdateRequirementInput) (*models.RequirementResponse, error) {
	req, err := s.requirementRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}

	if input.Site != nil {
		fields["recinto"] = *input.Site
	}
	if input.StartDate != nil {
		if _, err := time.Parse(models.DateLayout, *input.StartDate); err != nil {
			return nil, NewParseError("fecha_inicio inválida", err)
		}
		fields["fecha_inicio"] = *input.StartDate
	}
	if input.BaseTermDays != nil {
		if *input.BaseTermDays < 0 {
			return nil, NewValidationError("los plazos no pueden ser negativos")
		}
		fields["plazo_dias"] = *input.BaseTermDays
	}
	if input.ExtraTermDays != nil {
		if *input.ExtraTermDays < 0 {
			return nil, NewValidationError("los plazos no pueden ser negativos")
		}
		fields["plazo_adicional"] = *input.ExtraTermDays
	}
	if input.Penalty != nil {
		if *input.Penalty < 0 {
			return nil, NewValidationError("la multa no puede ser negativa")
		}
		fields["multa"] = *input.Penalty
	}
	if input.Description != nil {
		fields["descripcion"] = *input.Description
	}
	if input.Notes != nil {
		fields["observaciones"] = *input.Notes
	}

	quantity := req.Quantity
	unitPrice := req.UnitPrice
	recompute := false
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, NewValidationError("la cantidad debe ser mayor que cero")
		}
		quantity = *input.Quantity
		fields["cantidad"] = quantity
		recompute = true
	}
	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			return nil, NewValidationError("el precio unitario no puede ser negativo")
		}
		unitPrice = *input.UnitPrice
		fields["precio_unitario"] = unitPrice
		recompute = true
	}
	if recompute {
		fields["precio_total"] = quantity * unitPrice
	}

	if len(fields) == 0 {
		resp := req.ToResponse()
		return &resp, nil
	}

	if err := s.requirementRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// SetReception records the reception date of a requirement
func (s *RequirementService) SetReception(ctx context.Context, id uint, date string) (*models.RequirementResponse, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, NewParseError("fecha_recepcion inválida", err)
	}

	if _, err := s.requirementRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.requirementRepo.UpdateFields(ctx, id, map[string]interface{}{
		"fecha_recepcion": date,
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ClearReception removes the reception date. Not allowed while the
// requirement sits in a payment report, since that link depends on it.
func (s *RequirementService) ClearReception(ctx context.Context, id uint) (*models.RequirementResponse, error) {
	req, err := s.requirementRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.PaymentReportID != nil {
		return nil, ErrAlreadyInReport
	}

	if err := s.requirementRepo.UpdateFields(ctx, id, map[string]interface{}{
		"fecha_recepcion": nil,
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a requirement. Requirements linked to a work order or a
// payment report must be released first.
func (s *RequirementService) Delete(ctx context.Context, id uint) error {
	req, err := s.requirementRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if req.WorkOrderID != nil || req.PaymentReportID != nil {
		return ErrRequirementLinked
	}

	return s.requirementRepo.Delete(ctx, id)
}

func toResponses(reqs []models.Requirement) []models.RequirementResponse {
	responses := make([]models.RequirementResponse, 0, len(reqs))
	for i := range reqs {
		responses = append(responses, reqs[i].ToResponse())
	}
	return responses
}
