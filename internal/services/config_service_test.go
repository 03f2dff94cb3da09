package services

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSeededSingleton(t *testing.T) {
	svcs, _ := newTestServices(t)

	cfg, err := svcs.Config.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(1), cfg.ID)
	assert.Equal(t, "A", cfg.CorrelativePrefix)
	assert.Nil(t, cfg.SignatureDataURI)
}

func TestUpdateConfigFields(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	cfg, err := svcs.Config.Update(ctx, UpdateConfigInput{
		Title:         ptr("Contrato 2025"),
		Contractor:    ptr("Jardines del Sur Ltda."),
		InspectorName: ptr("Ana Rojas"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Contrato 2025", cfg.Title)
	assert.Equal(t, "Jardines del Sur Ltda.", cfg.Contractor)
	require.NotNil(t, cfg.InspectorName)
	assert.Equal(t, "Ana Rojas", *cfg.InspectorName)
	// Untouched fields survive
	assert.Equal(t, "A", cfg.CorrelativePrefix)
}

func TestUpdateConfigRejectsEmptyPrefix(t *testing.T) {
	svcs, _ := newTestServices(t)

	_, err := svcs.Config.Update(context.Background(), UpdateConfigInput{
		CorrelativePrefix: ptr("  "),
	})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestPrefixChangeOnlyAffectsNewCodes(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	first, err := svcs.WorkOrder.Create(ctx, CreateWorkOrderInput{GardenCode: "J01"})
	require.NoError(t, err)
	assert.Equal(t, "OT-J01-A001", first.Code)

	_, err = svcs.Config.Update(ctx, UpdateConfigInput{CorrelativePrefix: ptr("B")})
	require.NoError(t, err)

	second, err := svcs.WorkOrder.Create(ctx, CreateWorkOrderInput{GardenCode: "J01"})
	require.NoError(t, err)
	// New scope starts from 001; the old code keeps its prefix
	assert.Equal(t, "OT-J01-B001", second.Code)

	existing, err := svcs.WorkOrder.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "OT-J01-A001", existing.Code)
}

func TestSetSignatureStoresDecodedBytes(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	encoded := base64.StdEncoding.EncodeToString(png)

	require.NoError(t, svcs.Config.SetSignature(ctx, encoded))

	stored, err := svcs.Config.GetSignature(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, encoded, *stored)

	cfg, err := svcs.Config.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg.SignatureDataURI)
	assert.True(t, strings.HasPrefix(*cfg.SignatureDataURI, "data:image/png;base64,"))
}

func TestSetSignatureAcceptsDataURI(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	encoded := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	require.NoError(t, svcs.Config.SetSignature(ctx, "data:image/png;base64,"+encoded))

	stored, err := svcs.Config.GetSignature(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, encoded, *stored)
}

func TestSetSignatureRejectsGarbage(t *testing.T) {
	svcs, _ := newTestServices(t)

	err := svcs.Config.SetSignature(context.Background(), "%%%not-base64%%%")
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
