package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGardenAndDuplicate(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	garden, err := svcs.Catalog.CreateGarden(ctx, CreateGardenInput{Code: " J01 ", Name: "Parque Central"})
	require.NoError(t, err)
	assert.Equal(t, "J01", garden.Code)

	_, err = svcs.Catalog.CreateGarden(ctx, CreateGardenInput{Code: "J01", Name: "Otro"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateGardenValidation(t *testing.T) {
	svcs, _ := newTestServices(t)

	_, err := svcs.Catalog.CreateGarden(context.Background(), CreateGardenInput{Code: "  ", Name: "X"})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateLineItemAndDuplicate(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	unit := "m2"
	item, err := svcs.Catalog.CreateLineItem(ctx, CreateLineItemInput{
		Code: "P01", Name: "Corte de pasto", Unit: &unit, UnitPrice: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, 500.0, item.UnitPrice)

	_, err = svcs.Catalog.CreateLineItem(ctx, CreateLineItemInput{Code: "P01", Name: "Otro"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svcs.Catalog.CreateLineItem(ctx, CreateLineItemInput{Code: "P02", Name: "Poda", UnitPrice: -5})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateSiteRequiresExistingGarden(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	_, err := svcs.Catalog.CreateSite(ctx, CreateSiteInput{GardenCode: "ZZZ", Name: "Sector A"})
	assert.ErrorIs(t, err, ErrGardenNotFound)

	site, err := svcs.Catalog.CreateSite(ctx, CreateSiteInput{GardenCode: "J01", Name: "Sector A"})
	require.NoError(t, err)
	assert.Equal(t, "J01", site.GardenCode)

	// Duplicate site names are allowed, two crews can share a sector name
	_, err = svcs.Catalog.CreateSite(ctx, CreateSiteInput{GardenCode: "J01", Name: "Sector A"})
	assert.NoError(t, err)
}

func TestListSitesFiltered(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	_, err := svcs.Catalog.CreateSite(ctx, CreateSiteInput{GardenCode: "J01", Name: "Sector A"})
	require.NoError(t, err)
	_, err = svcs.Catalog.CreateSite(ctx, CreateSiteInput{GardenCode: "J02", Name: "Sector B"})
	require.NoError(t, err)

	all, err := svcs.Catalog.ListSites(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyJ01, err := svcs.Catalog.ListSites(ctx, "J01")
	require.NoError(t, err)
	require.Len(t, onlyJ01, 1)
	assert.Equal(t, "Sector A", onlyJ01[0].Name)
}
