package database

import (
	"context"
	"testing"

	"structiv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnits_CreateGetList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u := &models.Unit{Name: "Unit 9", Size: 40, Price: 1000, Status: models.UnitAvailable, Images: []string{"/uploads/a.png", "/uploads/b.png"}}
	require.NoError(t, db.CreateUnit(ctx, u))
	seedUnit(t, db, "Unit 10", models.UnitOccupied)

	got, err := db.GetUnit(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unit 9", got.Name)
	assert.Equal(t, 40.0, got.Size)
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, got.Images)

	units, err := db.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "Unit 9", units[0].Name)
	assert.Equal(t, []string{}, units[1].Images)

	_, err = db.GetUnit(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnits_UpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := seedUnit(t, db, "Unit 1", models.UnitAvailable)

	price := 1500.0
	status := models.UnitMaintenance
	require.NoError(t, db.UpdateUnit(ctx, u.ID, models.UnitPatch{Price: &price, Status: &status}))

	got, err := db.GetUnit(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unit 1", got.Name)
	assert.Equal(t, 40.0, got.Size)
	assert.Equal(t, 1500.0, got.Price)
	assert.Equal(t, models.UnitMaintenance, got.Status)

	images := []string{"/uploads/c.webp"}
	require.NoError(t, db.UpdateUnit(ctx, u.ID, models.UnitPatch{Images: &images}))
	got, err = db.GetUnit(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, images, got.Images)

	assert.ErrorIs(t, db.UpdateUnit(ctx, 999, models.UnitPatch{Price: &price}), ErrNotFound)
}

func TestUnits_Seed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seed := []models.Unit{
		{Name: "A", Size: 30, Price: 900},
		{Name: "B", Size: 50, Price: 1200, Status: models.UnitOccupied},
	}

	n, err := db.SeedUnits(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.SeedUnits(ctx, seed)
	require.NoError(t, err)
	assert.Zero(t, n)

	units, err := db.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, models.UnitAvailable, units[0].Status)
	assert.Equal(t, models.UnitOccupied, units[1].Status)
}

func TestUnits_ImagePaths(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.CreateUnit(ctx, &models.Unit{Name: "A", Status: models.UnitAvailable, Images: []string{"/uploads/a.png"}}))
	require.NoError(t, db.CreateUnit(ctx, &models.Unit{Name: "B", Status: models.UnitAvailable, Images: []string{"/uploads/b.png", "/uploads/c.png"}}))

	paths, err := db.UnitImagePaths(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/uploads/a.png", "/uploads/b.png", "/uploads/c.png"}, paths)
}
