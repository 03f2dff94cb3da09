package statemachine

import (
	"context"
	"testing"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLinkOrderFromPending(t *testing.T) {
	req := &models.Requirement{Status: models.RequirementStatusPending}
	rfsm := NewRequirementFSM(req)

	err := rfsm.LinkOrder(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.RequirementStatusInOrder, req.Status)
}

func TestLinkOrderRejectedWhenNotPending(t *testing.T) {
	req := &models.Requirement{Status: models.RequirementStatusInOrder}
	rfsm := NewRequirementFSM(req)

	err := rfsm.LinkOrder(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.RequirementStatusInOrder, req.Status)
}

func TestUnlinkOrder(t *testing.T) {
	orderID := uint(3)
	req := &models.Requirement{Status: models.RequirementStatusInOrder, WorkOrderID: &orderID}
	rfsm := NewRequirementFSM(req)

	err := rfsm.UnlinkOrder(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.RequirementStatusPending, req.Status)
	assert.Nil(t, req.WorkOrderID)
}

func TestLinkReportRequiresReception(t *testing.T) {
	req := &models.Requirement{Status: models.RequirementStatusPending}
	rfsm := NewRequirementFSM(req)

	err := rfsm.LinkReport(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.RequirementStatusPending, req.Status)
}

func TestLinkReportFromOrderDropsOrderLink(t *testing.T) {
	received := "2025-03-10"
	orderID := uint(3)
	req := &models.Requirement{
		Status:        models.RequirementStatusInOrder,
		WorkOrderID:   &orderID,
		ReceptionDate: &received,
	}
	rfsm := NewRequirementFSM(req)

	err := rfsm.LinkReport(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.RequirementStatusInReport, req.Status)
	assert.Nil(t, req.WorkOrderID)
}

func TestLinkReportRejectedWhenAlreadyInReport(t *testing.T) {
	received := "2025-03-10"
	reportID := uint(9)
	req := &models.Requirement{
		Status:          models.RequirementStatusInReport,
		PaymentReportID: &reportID,
		ReceptionDate:   &received,
	}
	rfsm := NewRequirementFSM(req)

	err := rfsm.LinkReport(context.Background())
	assert.Error(t, err)
}

func TestUnlinkReport(t *testing.T) {
	reportID := uint(9)
	req := &models.Requirement{Status: models.RequirementStatusInReport, PaymentReportID: &reportID}
	rfsm := NewRequirementFSM(req)

	err := rfsm.UnlinkReport(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.RequirementStatusPending, req.Status)
	assert.Nil(t, req.PaymentReportID)
}

func TestCan(t *testing.T) {
	rfsm := NewRequirementFSM(&models.Requirement{Status: models.RequirementStatusPending})
	assert.True(t, rfsm.Can("link_order"))
	assert.True(t, rfsm.Can("link_report"))
	assert.False(t, rfsm.Can("unlink_order"))
}
