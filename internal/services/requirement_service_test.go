package services

import (
	"context"
	"testing"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequirementComputesTotal(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)

	req, err := svcs.Requirement.Create(context.Background(), CreateRequirementInput{
		GardenCode:   "J01",
		LineItemCode: "P01",
		Quantity:     10,
		UnitPrice:    500,
		StartDate:    "2025-03-01",
		BaseTermDays: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, 5000.0, req.TotalPrice)
	assert.Equal(t, models.RequirementStatusPending, req.Status)
	require.NotNil(t, req.Deadline)
	assert.Equal(t, "2025-03-08", *req.Deadline)
	require.NotNil(t, req.LineItemName)
	assert.Equal(t, "Corte de pasto", *req.LineItemName)
}

func TestCreateRequirementValidations(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	_, err := svcs.Requirement.Create(ctx, CreateRequirementInput{
		GardenCode: "ZZZ", LineItemCode: "P01", Quantity: 1, StartDate: "2025-03-01",
	})
	assert.ErrorIs(t, err, ErrGardenNotFound)

	_, err = svcs.Requirement.Create(ctx, CreateRequirementInput{
		GardenCode: "J01", LineItemCode: "ZZZ", Quantity: 1, StartDate: "2025-03-01",
	})
	assert.ErrorIs(t, err, ErrLineItemNotFound)

	_, err = svcs.Requirement.Create(ctx, CreateRequirementInput{
		GardenCode: "J01", LineItemCode: "P01", Quantity: 1, StartDate: "01-03-2025",
	})
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)

	_, err = svcs.Requirement.Create(ctx, CreateRequirementInput{
		GardenCode: "J01", LineItemCode: "P01", Quantity: -1, StartDate: "2025-03-01",
	})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateRequirementRecomputesTotal(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	req := createTestRequirement(t, svcs, "J01")

	updated, err := svcs.Requirement.Update(ctx, req.ID, UpdateRequirementInput{
		Quantity: ptr(20.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.Quantity)
	assert.Equal(t, 10000.0, updated.TotalPrice)

	updated, err = svcs.Requirement.Update(ctx, req.ID, UpdateRequirementInput{
		UnitPrice: ptr(100.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, updated.TotalPrice)
}

func TestUpdateRequirementPartialChangeset(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	req := createTestRequirement(t, svcs, "J01")

	updated, err := svcs.Requirement.Update(ctx, req.ID, UpdateRequirementInput{
		Penalty: ptr(200.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, updated.Penalty)
	// Untouched fields survive
	assert.Equal(t, 5000.0, updated.TotalPrice)
	assert.Equal(t, 4800.0, updated.AmountPayable)
}

func TestSetAndClearReception(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	req := createTestRequirement(t, svcs, "J01")

	updated, err := svcs.Requirement.SetReception(ctx, req.ID, "2025-03-11")
	require.NoError(t, err)
	require.NotNil(t, updated.ReceptionDate)
	assert.Equal(t, "2025-03-11", *updated.ReceptionDate)
	// 5 day term from 2025-03-01 gives deadline 2025-03-06
	assert.Equal(t, 5, updated.DelayDays)

	cleared, err := svcs.Requirement.ClearReception(ctx, req.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.ReceptionDate)
	assert.Equal(t, 0, cleared.DelayDays)
}

func TestSetReceptionRejectsBadDate(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)

	req := createTestRequirement(t, svcs, "J01")
	_, err := svcs.Requirement.SetReception(context.Background(), req.ID, "11/03/2025")
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestClearReceptionRejectedWhileInReport(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	req := createTestRequirement(t, svcs, "J01")
	receive(t, svcs, req.ID, "2025-03-05")
	_, err := svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
		GardenCode: "J01",
		Items:      []ReportItemInput{{ID: &req.ID, Amount: 5000}},
	})
	require.NoError(t, err)

	_, err = svcs.Requirement.ClearReception(ctx, req.ID)
	assert.ErrorIs(t, err, ErrAlreadyInReport)
}

func TestDeleteRequirementGuards(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	free := createTestRequirement(t, svcs, "J01")
	require.NoError(t, svcs.Requirement.Delete(ctx, free.ID))
	_, err := svcs.Requirement.Get(ctx, free.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	linked := createTestRequirement(t, svcs, "J01")
	_, err = svcs.WorkOrder.Create(ctx, CreateWorkOrderInput{
		GardenCode:     "J01",
		RequirementIDs: []uint{linked.ID},
	})
	require.NoError(t, err)

	err = svcs.Requirement.Delete(ctx, linked.ID)
	assert.ErrorIs(t, err, ErrRequirementLinked)
}

func TestDeleteRequirementNotFound(t *testing.T) {
	svcs, _ := newTestServices(t)
	err := svcs.Requirement.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
