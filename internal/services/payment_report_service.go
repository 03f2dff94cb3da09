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

// PaymentReportService manages payment reports, their membership and their
// financial totals.
type PaymentReportService struct {
	db              *gorm.DB
	reportRepo      repository.PaymentReportRepository
	requirementRepo repository.RequirementRepository
	gardenRepo      repository.GardenRepository
	configRepo      repository.ConfigRepository
}

// NewPaymentReportService creates a new payment report service
func NewPaymentReportService(db *gorm.DB, reportRepo repository.PaymentReportRepository, requirementRepo repository.RequirementRepository, gardenRepo repository.GardenRepository, configRepo repository.ConfigRepository) *PaymentReportService {
	return &PaymentReportService{
		db:              db,
		reportRepo:      reportRepo,
		requirementRepo: requirementRepo,
		gardenRepo:      gardenRepo,
		configRepo:      configRepo,
	}
}

// List returns every payment report with its garden name and member count
func (s *PaymentReportService) List(ctx context.Context) ([]models.PaymentReportResponse, error) {
	reports, err := s.reportRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	gardens, err := s.gardenNames(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.requirementRepo.CountPerPaymentReport(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]models.PaymentReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, reportResponse(report, gardens, counts))
	}
	return responses, nil
}

// PaymentReportDetail is a payment report together with its enriched members
type PaymentReportDetail struct {
	models.PaymentReportResponse
	Requirements []models.RequirementResponse `json:"requerimientos"`
}

// Get returns a single payment report with its members
func (s *PaymentReportService) Get(ctx context.Context, id uint) (*PaymentReportDetail, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	reqs, err := s.requirementRepo.FindByPaymentReport(ctx, id)
	if err != nil {
		return nil, err
	}
	gardens, err := s.gardenNames(ctx)
	if err != nil {
		return nil, err
	}

	detail := &PaymentReportDetail{
		PaymentReportResponse: reportResponse(*report, gardens, map[uint]int64{id: int64(len(reqs))}),
		Requirements:          toResponses(reqs),
	}
	return detail, nil
}

// Candidates returns the requirements of a garden eligible for a new report:
// received and not yet attached to any report.
func (s *PaymentReportService) Candidates(ctx context.Context, gardenCode string) ([]models.RequirementResponse, error) {
	if gardenCode == "" {
		return nil, NewValidationError("jardin_codigo es obligatorio")
	}
	reqs, err := s.requirementRepo.FindReportCandidates(ctx, gardenCode)
	if err != nil {
		return nil, err
	}
	return toResponses(reqs), nil
}

// ReportItemInput is one line of a report: a linked requirement when ID is
// present, or a free amount counted only in the totals.
type ReportItemInput struct {
	ID     *uint   `json:"id"`
	Amount float64 `json:"monto"`
}

// CreatePaymentReportInput carries the fields to create a payment report
type CreatePaymentReportInput struct {
	GardenCode   string            `json:"jardin_codigo" binding:"required"`
	CreationDate string            `json:"fecha_creacion"`
	Notes        *string           `json:"observaciones"`
	Items        []ReportItemInput `json:"items" binding:"required"`
}

// Create generates the next correlative code, links the selected received
// requirements and stores the computed totals, all in one transaction.
func (s *PaymentReportService) Create(ctx context.Context, input CreatePaymentReportInput) (*PaymentReportDetail, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptySelection
	}
	creationDate := input.CreationDate
	if creationDate == "" {
		creationDate = time.Now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, creationDate); err != nil {
		return nil, NewParseError("fecha_creacion inválida", err)
	}

	var reportID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		gardenRepo := repository.NewGardenRepository(tx)
		reportRepo := repository.NewPaymentReportRepository(tx)
		requirementRepo := repository.NewRequirementRepository(tx)
		configRepo := repository.NewConfigRepository(tx)

		if _, err := gardenRepo.FindByCode(ctx, input.GardenCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGardenNotFound
			}
			return err
		}

		net, reqs, err := s.resolveItems(ctx, requirementRepo, input.Items, input.GardenCode, 0)
		if err != nil {
			return err
		}

		cfg, err := configRepo.Get(ctx)
		if err != nil {
			return err
		}
		scope := correlativeScope("IP", input.GardenCode, cfg.CorrelativePrefix)
		codes, err := reportRepo.CodesWithPrefix(ctx, scope)
		if err != nil {
			return err
		}

		report := &models.PaymentReport{
			Code:         nextCorrelative(scope, codes, reportCodeWidth),
			GardenCode:   input.GardenCode,
			CreationDate: creationDate,
			Notes:        input.Notes,
		}
		report.ComputeTotals(net)
		if err := reportRepo.Create(ctx, report); err != nil {
			return err
		}

		for _, req := range reqs {
			if err := attachToReport(ctx, requirementRepo, req, report.ID); err != nil {
				return err
			}
		}

		reportID = report.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, reportID)
}

// UpdatePaymentReportInput is a partial changeset. A non-nil Items replaces
// the full membership and recomputes the totals.
type UpdatePaymentReportInput struct {
	CreationDate *string            `json:"fecha_creacion"`
	Notes        *string            `json:"observaciones"`
	Items        *[]ReportItemInput `json:"items"`
}

// Update edits a payment report. Membership replacement validates every item
// before touching any row.
func (s *PaymentReportService) Update(ctx context.Context, id uint, input UpdatePaymentReportInput) (*PaymentReportDetail, error) {
	if input.CreationDate != nil {
		if _, err := time.Parse(models.DateLayout, *input.CreationDate); err != nil {
			return nil, NewParseError("fecha_creacion inválida", err)
		}
	}
	if input.Items != nil && len(*input.Items) == 0 {
		return nil, ErrEmptySelection
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reportRepo := repository.NewPaymentReportRepository(tx)
		requirementRepo := repository.NewRequirementRepository(tx)

		report, err := reportRepo.FindByID(ctx, id)
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

		if input.Items != nil {
			net, reqs, err := s.resolveItems(ctx, requirementRepo, *input.Items, report.GardenCode, id)
			if err != nil {
				return err
			}

			if err := requirementRepo.ReleasePaymentReport(ctx, id); err != nil {
				return err
			}
			for _, req := range reqs {
				req.Status = models.RequirementStatusPending
				req.PaymentReportID = nil
				if err := attachToReport(ctx, requirementRepo, req, id); err != nil {
					return err
				}
			}

			totals := models.PaymentReport{}
			totals.ComputeTotals(net)
			fields["neto"] = totals.Net
			fields["utilidades"] = totals.Utility
			fields["iva"] = totals.Tax
			fields["total_final"] = totals.Total
		}

		if len(fields) == 0 {
			return nil
		}
		return reportRepo.UpdateFields(ctx, id, fields)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes a payment report and returns its members to pending
func (s *PaymentReportService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reportRepo := repository.NewPaymentReportRepository(tx)
		requirementRepo := repository.NewRequirementRepository(tx)

		if _, err := reportRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := requirementRepo.ReleasePaymentReport(ctx, id); err != nil {
			return err
		}
		return reportRepo.Delete(ctx, id)
	})
}

// resolveItems sums every item amount and fetches the requirements to link.
// reportID is the report being edited, or zero on creation, so that current
// members pass the "not already in a report" guard.
func (s *PaymentReportService) resolveItems(ctx context.Context, requirementRepo repository.RequirementRepository, items []ReportItemInput, gardenCode string, reportID uint) (float64, []*models.Requirement, error) {
	var net float64
	reqs := make([]*models.Requirement, 0, len(items))

	for _, item := range items {
		net += item.Amount
		if item.ID == nil {
			continue
		}
		req, err := requirementRepo.FindByID(ctx, *item.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, nil, NewValidationError(fmt.Sprintf("el requerimiento %d no existe", *item.ID))
			}
			return 0, nil, err
		}
		if req.GardenCode != gardenCode {
			return 0, nil, NewValidationError(fmt.Sprintf("el requerimiento %d pertenece a otro jardín", *item.ID))
		}
		if !req.HasReception() {
			return 0, nil, NewValidationError(fmt.Sprintf("el requerimiento %d no tiene fecha de recepción", *item.ID))
		}
		if req.PaymentReportID != nil && *req.PaymentReportID != reportID {
			return 0, nil, NewValidationError(fmt.Sprintf("el requerimiento %d ya pertenece a otro informe", *item.ID))
		}
		reqs = append(reqs, req)
	}
	return net, reqs, nil
}

// attachToReport runs the state transition and persists the link. Entering a
// report always drops any work order link.
func attachToReport(ctx context.Context, requirementRepo repository.RequirementRepository, req *models.Requirement, reportID uint) error {
	rfsm := statemachine.NewRequirementFSM(req)
	if err := rfsm.LinkReport(ctx); err != nil {
		return NewValidationError(err.Error())
	}
	return requirementRepo.UpdateFields(ctx, req.ID, map[string]interface{}{
		"informe_pago_id": reportID,
		"ot_id":           nil,
		"estado":          req.Status,
	})
}

func (s *PaymentReportService) gardenNames(ctx context.Context) (map[string]string, error) {
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

func reportResponse(report models.PaymentReport, gardens map[string]string, counts map[uint]int64) models.PaymentReportResponse {
	resp := models.PaymentReportResponse{
		ID:               report.ID,
		Code:             report.Code,
		GardenCode:       report.GardenCode,
		CreationDate:     report.CreationDate,
		Net:              report.Net,
		Utility:          report.Utility,
		Tax:              report.Tax,
		Total:            report.Total,
		RequirementCount: counts[report.ID],
		Notes:            report.Notes,
		CreatedAt:        report.CreatedAt,
		UpdatedAt:        report.UpdatedAt,
	}
	if name, ok := gardens[report.GardenCode]; ok {
		resp.GardenName = &name
	}
	return resp
}
