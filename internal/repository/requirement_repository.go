package repository

import (
	"context"

	"github.com/avergara/mantencion-api/internal/models"
	"gorm.io/gorm"
)

// RequirementRepository defines the interface for requirement data access
type RequirementRepository interface {
	FindAll(ctx context.Context) ([]models.Requirement, error)
	FindByID(ctx context.Context, id uint) (*models.Requirement, error)
	FindByWorkOrder(ctx context.Context, workOrderID uint) ([]models.Requirement, error)
	FindByPaymentReport(ctx context.Context, reportID uint) ([]models.Requirement, error)
	FindReportCandidates(ctx context.Context, gardenCode string) ([]models.Requirement, error)
	Create(ctx context.Context, req *models.Requirement) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	ReleaseWorkOrder(ctx context.Context, workOrderID uint) error
	ReleasePaymentReport(ctx context.Context, reportID uint) error
	CountPerWorkOrder(ctx context.Context) (map[uint]int64, error)
	CountPerPaymentReport(ctx context.Context) (map[uint]int64, error)
}

type requirementRepository struct {
	db *gorm.DB
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &requirementRepository{db: db}
}

// withAssociations preloads everything the enriched listing needs.
func (r *requirementRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("LineItem").
		Preload("WorkOrder").
		Preload("PaymentReport")
}

func (r *requirementRepository) FindAll(ctx context.Context) ([]models.Requirement, error) {
	var reqs []models.Requirement
	err := r.withAssociations(ctx).
		Order("fecha_inicio DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *requirementRepository) FindByID(ctx context.Context, id uint) (*models.Requirement, error) {
	var req models.Requirement
	err := r.withAssociations(ctx).First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requirementRepository) FindByWorkOrder(ctx context.Context, workOrderID uint) ([]models.Requirement, error) {
	var reqs []models.Requirement
	err := r.withAssociations(ctx).
		Where("ot_id = ?", workOrderID).
		Order("fecha_inicio DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *requirementRepository) FindByPaymentReport(ctx context.Context, reportID uint) ([]models.Requirement, error) {
	var reqs []models.Requirement
	err := r.withAssociations(ctx).
		Where("informe_pago_id = ?", reportID).
		Order("fecha_inicio DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

// FindReportCandidates returns the requirements of a garden that already have a
// reception date and are not yet attached to a payment report.
func (r *requirementRepository) FindReportCandidates(ctx context.Context, gardenCode string) ([]models.Requirement, error) {
	var reqs []models.Requirement
	err := r.withAssociations(ctx).
		Where("jardin_codigo = ?", gardenCode).
		Where("fecha_recepcion IS NOT NULL AND fecha_recepcion != ''").
		Where("informe_pago_id IS NULL").
		Order("fecha_inicio DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *requirementRepository) Create(ctx context.Context, req *models.Requirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requirementRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Requirement{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *requirementRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Requirement{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReleaseWorkOrder detaches every requirement of a work order and returns them
// to the pending state.
func (r *requirementRepository) ReleaseWorkOrder(ctx context.Context, workOrderID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Requirement{}).
		Where("ot_id = ?", workOrderID).
		Updates(map[string]interface{}{
			"ot_id":  nil,
			"estado": models.RequirementStatusPending,
		}).Error
}

// ReleasePaymentReport detaches every requirement of a payment report and
// returns them to the pending state.
func (r *requirementRepository) ReleasePaymentReport(ctx context.Context, reportID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Requirement{}).
		Where("informe_pago_id = ?", reportID).
		Updates(map[string]interface{}{
			"informe_pago_id": nil,
			"estado":          models.RequirementStatusPending,
		}).Error
}

type aggregateCount struct {
	AggregateID uint  `gorm:"column:aggregate_id"`
	Total       int64 `gorm:"column:total"`
}

// CountPerWorkOrder returns the member count of every work order in one query.
func (r *requirementRepository) CountPerWorkOrder(ctx context.Context) (map[uint]int64, error) {
	var rows []aggregateCount
	err := r.db.WithContext(ctx).
		Model(&models.Requirement{}).
		Select("ot_id AS aggregate_id, COUNT(*) AS total").
		Where("ot_id IS NOT NULL").
		Group("ot_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.AggregateID] = row.Total
	}
	return counts, nil
}

// CountPerPaymentReport returns the member count of every payment report in
// one query.
func (r *requirementRepository) CountPerPaymentReport(ctx context.Context) (map[uint]int64, error) {
	var rows []aggregateCount
	err := r.db.WithContext(ctx).
		Model(&models.Requirement{}).
		Select("informe_pago_id AS aggregate_id, COUNT(*) AS total").
		Where("informe_pago_id IS NOT NULL").
		Group("informe_pago_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.AggregateID] = row.Total
	}
	return counts, nil
}
