package repository

import (
	"context"

	"github.com/avergara/mantencion-api/internal/models"
	"gorm.io/gorm"
)

// PaymentReportRepository defines the interface for payment report data access
type PaymentReportRepository interface {
	FindAll(ctx context.Context) ([]models.PaymentReport, error)
	FindByID(ctx context.Context, id uint) (*models.PaymentReport, error)
	FindByCode(ctx context.Context, code string) (*models.PaymentReport, error)
	Create(ctx context.Context, report *models.PaymentReport) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	CodesWithPrefix(ctx context.Context, prefix string) ([]string, error)
	CountRequirements(ctx context.Context, reportID uint) (int64, error)
}

type paymentReportRepository struct {
	db *gorm.DB
}

// NewPaymentReportRepository creates a new payment report repository
func NewPaymentReportRepository(db *gorm.DB) PaymentReportRepository {
	return &paymentReportRepository{db: db}
}

func (r *paymentReportRepository) FindAll(ctx context.Context) ([]models.PaymentReport, error) {
	var reports []models.PaymentReport
	err := r.db.WithContext(ctx).
		Order("fecha_creacion DESC, id DESC").
		Find(&reports).Error
	return reports, err
}

func (r *paymentReportRepository) FindByID(ctx context.Context, id uint) (*models.PaymentReport, error) {
	var report models.PaymentReport
	err := r.db.WithContext(ctx).First(&report, id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *paymentReportRepository) FindByCode(ctx context.Context, code string) (*models.PaymentReport, error) {
	var report models.PaymentReport
	err := r.db.WithContext(ctx).Where("codigo = ?", code).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *paymentReportRepository) Create(ctx context.Context, report *models.PaymentReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *paymentReportRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentReport{}).
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

func (r *paymentReportRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentReport{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CodesWithPrefix returns every report code starting with the given scope
// prefix, used by the correlative generator.
func (r *paymentReportRepository) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.PaymentReport{}).
		Where("codigo LIKE ?", prefix+"%").
		Pluck("codigo", &codes).Error
	return codes, err
}

func (r *paymentReportRepository) CountRequirements(ctx context.Context, reportID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Requirement{}).
		Where("informe_pago_id = ?", reportID).
		Count(&count).Error
	return count, err
}
