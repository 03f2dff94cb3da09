package repository

import (
	"context"

	"github.com/avergara/mantencion-api/internal/models"
	"gorm.io/gorm"
)

// WorkOrderRepository defines the interface for work order data access
type WorkOrderRepository interface {
	FindAll(ctx context.Context) ([]models.WorkOrder, error)
	FindByID(ctx context.Context, id uint) (*models.WorkOrder, error)
	FindByCode(ctx context.Context, code string) (*models.WorkOrder, error)
	Create(ctx context.Context, order *models.WorkOrder) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	CodesWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

type workOrderRepository struct {
	db *gorm.DB
}

// NewWorkOrderRepository creates a new work order repository
func NewWorkOrderRepository(db *gorm.DB) WorkOrderRepository {
	return &workOrderRepository{db: db}
}

func (r *workOrderRepository) FindAll(ctx context.Context) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	err := r.db.WithContext(ctx).
		Order("fecha_creacion DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *workOrderRepository) FindByID(ctx context.Context, id uint) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *workOrderRepository) FindByCode(ctx context.Context, code string) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := r.db.WithContext(ctx).Where("codigo = ?", code).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *workOrderRepository) Create(ctx context.Context, order *models.WorkOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *workOrderRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
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

func (r *workOrderRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.WorkOrder{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CodesWithPrefix returns every work order code starting with the given scope
// prefix, used by the correlative generator.
func (r *workOrderRepository) CodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Where("codigo LIKE ?", prefix+"%").
		Pluck("codigo", &codes).Error
	return codes, err
}
