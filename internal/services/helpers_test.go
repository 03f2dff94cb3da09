package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/avergara/mantencion-api/internal/database"
	"github.com/avergara/mantencion-api/internal/models"
	"github.com/avergara/mantencion-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated in-memory database with the seeded contract
// configuration (correlative prefix "A").
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	return db
}

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewServices(repos, db), db
}

// seedCatalog loads two gardens and one line item used across the tests
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Garden{Code: "J01", Name: "Parque Central"}).Error)
	require.NoError(t, db.Create(&models.Garden{Code: "J02", Name: "Plaza Norte"}).Error)
	unit := "m2"
	require.NoError(t, db.Create(&models.LineItem{Code: "P01", Name: "Corte de pasto", Unit: &unit, UnitPrice: 500}).Error)
}

// createTestRequirement registers a pending requirement for the garden
func createTestRequirement(t *testing.T, svcs *Services, gardenCode string) *models.RequirementResponse {
	t.Helper()
	req, err := svcs.Requirement.Create(context.Background(), CreateRequirementInput{
		GardenCode:   gardenCode,
		LineItemCode: "P01",
		Quantity:     10,
		UnitPrice:    500,
		StartDate:    "2025-03-01",
		BaseTermDays: 5,
	})
	require.NoError(t, err)
	return req
}

// receive marks the requirement as received on the given date
func receive(t *testing.T, svcs *Services, id uint, date string) {
	t.Helper()
	_, err := svcs.Requirement.SetReception(context.Background(), id, date)
	require.NoError(t, err)
}

func ptr[T any](v T) *T {
	return &v
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
