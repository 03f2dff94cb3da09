package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/avergara/mantencion-api/internal/repository"
	"github.com/avergara/mantencion-api/internal/statemachine"
	"gorm.io/gorm"
)

// WorkOrderService manages work orders and their requirement membership
type WorkOrderService struct {
	db              *gorm.DB
	workOrderRepo   repository.WorkOrderRepository
	requirementRepo repository.RequirementRepository
	gardenRepo      repository.GardenRepository
	configRepo      repository.ConfigRepository
}

// NewWorkOrderService creates a new work order service
func NewWorkOrderService(db *gorm.DB, workOrderRepo repository.WorkOrderRepository, requirementRepo repository.RequirementRepository, gardenRepo repository.GardenRepository, configRepo repository.ConfigRepository) *WorkOrderService {
	return &WorkOrderService{
		db:              db,
		workOrderRepo:   workOrderRepo,
		requirementRepo: requirementRepo,
		gardenRepo:      gardenRepo,
		configRepo:      configRepo,
	}
}

// List returns every work order with its garden name and member count
func (s *WorkOrderService) List(ctx context.Context) ([]models.WorkOrderResponse, error) {
	orders, err := s.workOrderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	gardens, err := s.gardenNames(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.requirementRepo.CountPerWorkOrder(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]models.WorkOrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, workOrderResponse(order, gardens, counts))
	}
	return responses, nil
}

// WorkOrderDetail is a work order together with its enriched requirements
type WorkOrderDetail struct {
	models.WorkOrderResponse
	Requirements []models.RequirementResponse `json:"requerimientos"`
}

// Get returns a single work order with its members
func (s *WorkOrderService) Get(ctx context.Context, id uint) (*WorkOrderDetail, error) {
	order, err := s.workOrderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	reqs, err := s.requirementRepo.FindByWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	gardens, err := s.gardenNames(ctx)
	if err != nil {
		return nil, err
	}

	detail := &WorkOrderDetail{
		WorkOrderResponse: workOrderResponse(*order, gardens, map[uint]int64{id: int64(len(reqs))}),
		Requirements:      toResponses(reqs),
	}
	return detail, nil
}

// CreateWorkOrderInput carries the fields to create a work order
type CreateWorkOrderInput struct {
	GardenCode     string  `json:"jardin_codigo" binding:"required"`
	CreationDate   string  `json:"fecha_creacion"`
	Notes          *string `json:"observaciones"`
	RequirementIDs []uint  `json:"requerimiento_ids"`
}

// Create generates the next correlative code for the garden and links the
// selected pending requirements, all in one transaction.
func (s *WorkOrderService) Create(ctx context.Context, input CreateWorkOrderInput) (*WorkOrderDetail, error) {
	creationDate := input.CreationDate
	if creationDate == "" {
		creationDate = time.Now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, creationDate); err != nil {
		return nil, NewParseError("fecha_creacion inválida", err)
	}

	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		gardenRepo := repository.NewGardenRepository(tx)
		workOrderRepo := repository.NewWorkOrderRepository(tx)
		requirementRepo := repository.NewRequirementRepository(tx)
		configRepo := repository.NewConfigRepository(tx)

		if _, err := gardenRepo.FindByCode(ctx, input.GardenCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGardenNotFound
			}
			return err
		}

		reqs, err := s.loadMembers(ctx, requirementRepo, input.RequirementIDs, input.GardenCode)
		if err != nil {
			return err
		}

		cfg, err := configRepo.Get(ctx)
		if err != nil {
			return err
		}
		scope := correlativeScope("OT", input.GardenCode, cfg.CorrelativePrefix)
		codes, err := workOrderRepo.CodesWithPrefix(ctx, scope)
		if err != nil {
			return err
		}

		order := &models.WorkOrder{
			Code:         nextCorrelative(scope, codes, workOrderCodeWidth),
			GardenCode:   input.GardenCode,
			CreationDate: creationDate,
			Notes:        input.Notes,
		}
		if err := workOrderRepo.Create(ctx, order); err != nil {
			return err
		}

		for _, req := range reqs {
			if err := attachToOrder(ctx, requirementRepo, req, order.ID); err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, orderID)
}

// UpdateWorkOrderInput is a partial changeset. A non-nil RequirementIDs
// replaces the full membership.
type UpdateWorkOrderInput struct {
	CreationDate   *string `json:"fecha_creacion"`
	Notes          *string `json:"observaciones"`
	RequirementIDs *[]uint `json:"requerimiento_ids"`
}

// Update edits a work order. Membership replacement validates every selected
// requirement before touching any row, so a bad selection leaves the order
// untouched.
func (s *WorkOrderService) Update(ctx context.Context, id uint, input UpdateWorkOrderInput) (*WorkOrderDetail, error) {
	if input.CreationDate != nil {
		if _, err := time.Parse(models.DateLayout, *input.CreationDate); err != nil {
			return nil, NewParseError("fecha_creacion inválida", err)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workOrderRepo := repository.NewWorkOrderRepository(tx)
		requirementRepo := repository.NewRequirementRepository(tx)

		order, err := workOrderRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		fields := map[string]interface{}{}
		if input.CreationDate != nil {
			fields["fecha_creacion"] = *input.CreationDate
		}
		if input.Notes != nil {
			fields["observaciones"] = *input.Notes
		}
		if len(fields) > 0 {
			if err := workOrderRepo.UpdateFields(ctx, id, fields); err != nil {
				return err
			}
		}

		if input.RequirementIDs == nil {
			return nil
		}

		reqs := make([]*models.Requirement, 0, len(*input.RequirementIDs))
		for _, reqID := range *input.RequirementIDs {
			req, err := requirementRepo.FindByID(ctx, reqID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewValidationError(fmt.Sprintf("el requerimiento %d no existe", reqID))
				}
				return err
			}
			if req.GardenCode != order.GardenCode {
				return NewValidationError(fmt.Sprintf("el requerimiento %d pertenece a otro jardín", reqID))
			}
			alreadyMember := req.WorkOrderID != nil && *req.WorkOrderID == id
			if !alreadyMember && !req.MayEnterOrder() {
				return NewValidationError(fmt.Sprintf("el requerimiento %d no está pendiente (estado: %s)", reqID, req.Status))
			}
			reqs = append(reqs, req)
		}

		if err := requirementRepo.ReleaseWorkOrder(ctx, id); err != nil {
			return err
		}
		for _, req := range reqs {
			req.Status = models.RequirementStatusPending
			req.WorkOrderID = nil
			if err := attachToOrder(ctx, requirementRepo, req, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes a work order and returns its members to pending
func (s *WorkOrderService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		workOrderRepo := repository.NewWorkOrderRepository(tx)
		requirementRepo := repository.NewRequirementRepository(tx)

		if _, err := workOrderRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := requirementRepo.ReleaseWorkOrder(ctx, id); err != nil {
			return err
		}
		return workOrderRepo.Delete(ctx, id)
	})
}

// loadMembers fetches and validates the selected requirements for a new order
// of the given garden.
func (s *WorkOrderService) loadMembers(ctx context.Context, requirementRepo repository.RequirementRepository, ids []uint, gardenCode string) ([]*models.Requirement, error) {
	reqs := make([]*models.Requirement, 0, len(ids))
	for _, reqID := range ids {
		req, err := requirementRepo.FindByID(ctx, reqID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError(fmt.Sprintf("el requerimiento %d no existe", reqID))
			}
			return nil, err
		}
		if req.GardenCode != gardenCode {
			return nil, NewValidationError(fmt.Sprintf("el requerimiento %d pertenece a otro jardín", reqID))
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// attachToOrder runs the state transition and persists the link
func attachToOrder(ctx context.Context, requirementRepo repository.RequirementRepository, req *models.Requirement, orderID uint) error {
	rfsm := statemachine.NewRequirementFSM(req)
	if err := rfsm.LinkOrder(ctx); err != nil {
		return NewValidationError(err.Error())
	}
	return requirementRepo.UpdateFields(ctx, req.ID, map[string]interface{}{
		"ot_id":  orderID,
		"estado": req.Status,
	})
}

func (s *WorkOrderService) gardenNames(ctx context.Context) (map[string]string, error) {
	gardens, err := s.gardenRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(gardens))
	for _, g := range gardens {
		names[g.Code] = g.Name
	}
	return names, nil
}

func workOrderResponse(order models.WorkOrder, gardens map[string]string, counts map[uint]int64) models.WorkOrderResponse {
	resp := models.WorkOrderResponse{
		ID:               order.ID,
		Code:             order.Code,
		GardenCode:       order.GardenCode,
		CreationDate:     order.CreationDate,
		RequirementCount: counts[order.ID],
		Notes:            order.Notes,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
	if name, ok := gardens[order.GardenCode]; ok {
		resp.GardenName = &name
	}
	return resp
}
