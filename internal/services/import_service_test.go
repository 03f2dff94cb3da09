package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotJSON = `{
	"jardines": [
		{"codigo": "J01", "nombre": "Parque Central"},
		{"codigo": "J02", "nombre": "Plaza Norte"}
	],
	"partidas": [
		{"item": "P01", "partida": "Corte de pasto", "unidad": "m2", "precioUnitario": 500}
	],
	"recintos": [
		{"jardinCodigo": "J01", "nombre": "Sector A"}
	],
	"ordenesTrabajo": [
		{"codigo": "OT-J01-A001", "jardin_codigo": "J01", "fechaCreacion": "2025-03-02"}
	],
	"informes_pago": [
		{"codigo": "IP-J01-A01", "jardinCodigo": "J01", "fecha_creacion": "2025-03-10",
		 "neto": 1000, "utilidades": 100, "iva": 209, "totalFinal": 1309}
	],
	"requerimientos": [
		{"jardin_codigo": "J01", "partidaItem": "P01", "cantidad": 10,
		 "precioUnitario": 500, "fechaInicio": "2025-03-01", "fecha_registro": "2025-03-01",
		 "plazoDias": 5, "ot_codigo": "OT-J01-A001"},
		{"jardinCodigo": "J01", "partida_item": "P01", "cantidad": 2,
		 "precio_unitario": 500, "precioTotal": 1000, "fecha_inicio": "2025-02-01",
		 "fechaRecepcion": "2025-02-10", "ot_codigo": "OT-J01-A001",
		 "informeCodigo": "IP-J01-A01"}
	],
	"configuracion": {
		"titulo": "Contrato Restaurado",
		"prefijoCorrelativo": "B"
	}
}`

func TestImportDatabaseRestoresSnapshot(t *testing.T) {
	svcs, db := newTestServices(t)
	ctx := context.Background()

	// Pre-existing data must be replaced, not merged
	seedCatalog(t, db)
	stale := createTestRequirement(t, svcs, "J02")

	summary, err := svcs.Import.ImportDatabase(ctx, []byte(snapshotJSON))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Gardens)
	assert.Equal(t, 1, summary.LineItems)
	assert.Equal(t, 1, summary.Sites)
	assert.Equal(t, 1, summary.WorkOrders)
	assert.Equal(t, 1, summary.Reports)
	assert.Equal(t, 2, summary.Requirements)
	assert.Contains(t, summary.Message, "2 jardines")

	reqs, err := svcs.Requirement.List(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	for _, req := range reqs {
		assert.NotEqual(t, stale.ID, req.ID)
	}

	// First requirement resolved its work order by code
	var inOrder, inReport *models.RequirementResponse
	for i := range reqs {
		switch reqs[i].Status {
		case models.RequirementStatusInOrder:
			inOrder = &reqs[i]
		case models.RequirementStatusInReport:
			inReport = &reqs[i]
		}
	}
	require.NotNil(t, inOrder)
	require.NotNil(t, inOrder.WorkOrderCode)
	assert.Equal(t, "OT-J01-A001", *inOrder.WorkOrderCode)
	// Total price was derived when the snapshot omitted it
	assert.Equal(t, 5000.0, inOrder.TotalPrice)

	// The requirement carrying both codes landed in the report only
	require.NotNil(t, inReport)
	assert.Nil(t, inReport.WorkOrderID)
	require.NotNil(t, inReport.PaymentReportCode)
	assert.Equal(t, "IP-J01-A01", *inReport.PaymentReportCode)

	// Configuration was overwritten
	cfg, err := svcs.Config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Contrato Restaurado", cfg.Title)
	assert.Equal(t, "B", cfg.CorrelativePrefix)
}

func TestImportDatabaseAtomicOnFailure(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	keep := createTestRequirement(t, svcs, "J01")

	// Two work orders with the same code violate the unique index mid-import
	bad := `{
		"jardines": [{"codigo": "J09", "nombre": "Nuevo"}],
		"ordenes_trabajo": [
			{"codigo": "OT-J09-A001", "jardin_codigo": "J09"},
			{"codigo": "OT-J09-A001", "jardin_codigo": "J09"}
		]
	}`
	_, err := svcs.Import.ImportDatabase(ctx, []byte(bad))
	require.Error(t, err)

	// The wipe was rolled back together with the partial load
	reqs, err := svcs.Requirement.List(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, keep.ID, reqs[0].ID)

	gardens, err := svcs.Catalog.ListGardens(ctx)
	require.NoError(t, err)
	assert.Len(t, gardens, 2)
}

func TestImportDatabaseRejectsGarbage(t *testing.T) {
	svcs, _ := newTestServices(t)
	_, err := svcs.Import.ImportDatabase(context.Background(), []byte("not json"))
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestImportDatabaseSkipsMalformedSignature(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	snapshot := `{"configuracion_contrato": {"titulo": "Con Firma Rota", "ito_firma_base64": "%%%not-base64%%%"}}`
	_, err := svcs.Import.ImportDatabase(ctx, []byte(snapshot))
	require.NoError(t, err)

	cfg, err := svcs.Config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Con Firma Rota", cfg.Title)
	assert.Nil(t, cfg.SignatureDataURI)
}

func TestImportCatalogJSONKeepsExistingRows(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	payload := `{
		"jardines": [
			{"codigo": "J01", "nombre": "Nombre Distinto"},
			{"codigo": "J03", "nombre": "Jardín Nuevo"}
		],
		"partidas": [{"item": "P02", "partida": "Poda de árboles"}]
	}`
	summary, err := svcs.Import.ImportCatalogJSON(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.LineItems)

	gardens, err := svcs.Catalog.ListGardens(ctx)
	require.NoError(t, err)
	require.Len(t, gardens, 3)

	// The duplicate J01 kept its original name
	for _, g := range gardens {
		if g.Code == "J01" {
			assert.Equal(t, "Parque Central", g.Name)
		}
	}
}

func TestImportCatalogCSVGardens(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	csvData := "codigo,nombre\nJ01,Parque Central\nJ02,Plaza Norte\n"
	summary, err := svcs.Import.ImportCatalogCSV(ctx, CatalogKindGardens, stringsReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Gardens)
}

func TestImportCatalogCSVLineItems(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	csvData := "item,partida,unidad,precio_unitario\nP01,Corte de pasto,m2,500\nP02,Poda,un,1200\n"
	summary, err := svcs.Import.ImportCatalogCSV(ctx, CatalogKindLineItems, stringsReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.LineItems)

	items, err := svcs.Catalog.ListLineItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 500.0, items[0].UnitPrice)
}

func TestImportCatalogCSVUnknownKind(t *testing.T) {
	svcs, _ := newTestServices(t)
	_, err := svcs.Import.ImportCatalogCSV(context.Background(), "recintos", stringsReader("a,b\n"))
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestClearAllKeepsConfiguration(t *testing.T) {
	svcs, db := newTestServices(t)
	seedCatalog(t, db)
	ctx := context.Background()

	req := createTestRequirement(t, svcs, "J01")
	receive(t, svcs, req.ID, "2025-03-05")
	_, err := svcs.PaymentReport.Create(ctx, CreatePaymentReportInput{
		GardenCode: "J01",
		Items:      []ReportItemInput{{ID: &req.ID, Amount: 1000}},
	})
	require.NoError(t, err)

	require.NoError(t, svcs.Import.ClearAll(ctx))

	reqs, err := svcs.Requirement.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, reqs)

	gardens, err := svcs.Catalog.ListGardens(ctx)
	require.NoError(t, err)
	assert.Empty(t, gardens)

	cfg, err := svcs.Config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", cfg.CorrelativePrefix)
}

func TestSignatureRoundTripThroughSnapshot(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	encoded := base64.StdEncoding.EncodeToString(png)

	snapshot := `{"configuracion": {"ito_firma_base64": "` + encoded + `"}}`
	_, err := svcs.Import.ImportDatabase(ctx, []byte(snapshot))
	require.NoError(t, err)

	stored, err := svcs.Config.GetSignature(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, encoded, *stored)
}
