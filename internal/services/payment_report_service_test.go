package services

import (
	"context"
	"testing"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentReportComputesTotals(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	first := createTestRequirement(t, svcs, "J01")
	second := createTestRequirement(t, svcs, "J01")
	receive(t, svcs, first.ID, "2025-03-05")
	receive(t, svcs, second.ID, "2025-03-05")

	report, err := svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
		GardenCode:   "J01",
		CreationDate: "2025-03-10",
		Items: []ReportItemInput{
			{ID: &first.ID, Amount: 1000},
			{ID: &second.ID, Amount: 2000},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "IP-J01-A01", report.Code)
	assert.Equal(t, 3000.0, report.Net)
	assert.Equal(t, 300.0, report.Utility)
	assert.InDelta(t, 627.0, report.Tax, 0.001)
	assert.InDelta(t, 3927.0, report.Total, 0.001)
	assert.Equal(t, int64(2), report.RequirementCount)
}

func TestCreatePaymentReportRequiresItems(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)

	_, err := svcs.PaymentReport.Create(context.Background(), CreatePaymentReportInput{
		GardenCode: "J01",
	})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestCreatePaymentReportRejectsUnreceivedRequirement(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	req := createTestRequirement(t, svcs, "J01")

	_, err := svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
		GardenCode: "J01",
		Items:      []ReportItemInput{{ID: &req.ID, Amount: 1000}},
	})
	require.Error(t, err)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	reports, err := svcs.PaymentReport.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestPaymentReportLinkDropsWorkOrderLink(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	req := createTestRequirement(t, svcs, "J01")
	_, err := svcs.WorkOrder.Create(ctx, CreateWorkOrderInput{
		GardenCode:     "J01",
		RequirementIDs: []uint{req.ID},
	})
	require.NoError(t, err)
	receive(t, svcs, req.ID, "2025-03-05")

	_, err = svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
		GardenCode: "J01",
		Items:      []ReportItemInput{{ID: &req.ID, Amount: 5000}},
	})
	require.NoError(t, err)

	linked, err := svcs.Requirement.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequirementStatusInReport, linked.Status)
	assert.Nil(t, linked.WorkOrderID)
	assert.NotNil(t, linked.PaymentReportID)
}

func TestPaymentReportRejectsRequirementFromAnotherReport(t *testing.T) {
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

	_, err = svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
		GardenCode: "J01",
		Items:      []ReportItemInput{{ID: &req.ID, Amount: 5000}},
	})
	require.Error(t, err)
}

func TestPaymentReportFreeItemsCountOnlyInTotals(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	req := createTestRequirement(t, svcs, "J01")
	receive(t, svcs, req.ID, "2025-03-05")

	report, err := svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
		GardenCode: "J01",
		Items: []ReportItemInput{
			{ID: &req.ID, Amount: 1000},
			{Amount: 500},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, report.Net)
	assert.Equal(t, int64(1), report.RequirementCount)
}

func TestCandidatesFiltering(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	received := createTestRequirement(t, svcs, "J01")
	receive(t, svcs, received.ID, "2025-03-05")
	createTestRequirement(t, svcs, "J01") // no reception
	otherGarden := createTestRequirement(t, svcs, "J02")
	receive(t, svcs, otherGarden.ID, "2025-03-05")

	inReport := createTestRequirement(t, svcs, "J01")
	receive(t, svcs, inReport.ID, "2025-03-05")
	_, err := svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
		GardenCode: "J01",
		Items:      []ReportItemInput{{ID: &inReport.ID, Amount: 5000}},
	})
	require.NoError(t, err)

	candidates, err := svcs.PaymentReport.Candidates(ctx, "J01")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, received.ID, candidates[0].ID)
}

func TestUpdatePaymentReportRecomputesTotals(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	first := createTestRequirement(t, svcs, "J01")
	second := createTestRequirement(t, svcs, "J01")
	receive(t, svcs, first.ID, "2025-03-05")
	receive(t, svcs, second.ID, "2025-03-05")

	report, err := svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
		GardenCode: "J01",
		Items:      []ReportItemInput{{ID: &first.ID, Amount: 1000}},
	})
	require.NoError(t, err)

	updated, err := svcs.PaymentReport.Update(ctx, report.ID, UpdatePaymentReportInput{
		Items: ptr([]ReportItemInput{{ID: &second.ID, Amount: 2000}}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, updated.Net)
	assert.Equal(t, int64(1), updated.RequirementCount)

	released, err := svcs.Requirement.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequirementStatusPending, released.Status)
	assert.Nil(t, released.PaymentReportID)
}

func TestDeletePaymentReportReleasesMembers(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	req := createTestRequirement(t, svcs, "J01")
	receive(t, svcs, req.ID, "2025-03-05")

	report, err := svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
		GardenCode: "J01",
		Items:      []ReportItemInput{{ID: &req.ID, Amount: 5000}},
	})
	require.NoError(t, err)

	require.NoError(t, svcs.PaymentReport.Delete(ctx, report.ID))

	released, err := svcs.Requirement.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequirementStatusPending, released.Status)
	assert.Nil(t, released.PaymentReportID)

	// The released requirement keeps its reception date and is a candidate again
	candidates, err := svcs.PaymentReport.Candidates(ctx, "J01")
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestPaymentReportCorrelativeSequence(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	for i, expected := range []string{"IP-J01-A01", "IP-J01-A02"} {
		req := createTestRequirement(t, svcs, "J01")
		receive(t, svcs, req.ID, "2025-03-05")

		report, err := svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
			GardenCode: "J01",
			Items:      []ReportItemInput{{ID: &req.ID, Amount: 1000}},
		})
		require.NoError(t, err, "report %d", i)
		assert.Equal(t, expected, report.Code)
	}
}
