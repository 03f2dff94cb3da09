package services

import (
	"github.com/avergara/mantencion-api/internal/repository"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Catalog       *CatalogService
	Requirement   *RequirementService
	WorkOrder     *WorkOrderService
	PaymentReport *PaymentReportService
	Config        *ConfigService
	Import        *ImportService
	Export        *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, db *gorm.DB) *Services {
	reportSvc := NewPaymentReportService(db, repos.PaymentReport, repos.Requirement, repos.Garden, repos.Config)

	return &Services{
		Catalog:       NewCatalogService(repos.Garden, repos.LineItem, repos.Site),
		Requirement:   NewRequirementService(repos.Requirement, repos.Garden, repos.LineItem),
		WorkOrder:     NewWorkOrderService(db, repos.WorkOrder, repos.Requirement, repos.Garden, repos.Config),
		PaymentReport: reportSvc,
		Config:        NewConfigService(repos.Config),
		Import:        NewImportService(db),
		Export:        NewExportService(repos.Requirement, reportSvc, repos.Config),
	}
}
