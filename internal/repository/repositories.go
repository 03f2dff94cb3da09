package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Garden        GardenRepository
	LineItem      LineItemRepository
	Site          SiteRepository
	Requirement   RequirementRepository
	WorkOrder     WorkOrderRepository
	PaymentReport PaymentReportRepository
	Config        ConfigRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Garden:        NewGardenRepository(db),
		LineItem:      NewLineItemRepository(db),
		Site:          NewSiteRepository(db),
		Requirement:   NewRequirementRepository(db),
		WorkOrder:     NewWorkOrderRepository(db),
		PaymentReport: NewPaymentReportRepository(db),
		Config:        NewConfigRepository(db),
	}
}
