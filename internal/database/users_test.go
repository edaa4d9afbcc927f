package database

import (
	"context"
	"testing"

	"structiv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u := seedUser(t, db, "ana")
	assert.NotZero(t, u.ID)

	byID, err := db.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", byID.Username)
	assert.Equal(t, models.RoleTenant, byID.Role)
	assert.Equal(t, "hash", byID.PasswordHash)

	byEmail, err := db.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = db.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsers_UniqueConstraint(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "ana")

	dupEmail := &models.User{FirstName: "A", LastName: "B", Username: "other", Email: "ana@example.com", PasswordHash: "h", Role: models.RoleTenant}
	assert.ErrorIs(t, db.CreateUser(ctx, dupEmail), ErrDuplicate)

	dupUsername := &models.User{FirstName: "A", LastName: "B", Username: "ana", Email: "other@example.com", PasswordHash: "h", Role: models.RoleTenant}
	assert.ErrorIs(t, db.CreateUser(ctx, dupUsername), ErrDuplicate)

	users, err := db.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUsers_Exists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "ana")

	exists, err := db.UserExists(ctx, "ana@example.com", "nobody", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.UserExists(ctx, "x@example.com", "ana", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.UserExists(ctx, "ana@example.com", "ana", u.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUsers_UpdatePasswordAndProfile(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "ana")
	other := seedUser(t, db, "ben")

	require.NoError(t, db.UpdatePassword(ctx, u.ID, "new-hash"))
	assert.ErrorIs(t, db.UpdatePassword(ctx, 999, "x"), ErrNotFound)

	phone := "0917"
	require.NoError(t, db.UpdateProfile(ctx, u.ID, models.ProfilePatch{ContactNumber: &phone}))

	got, err := db.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Equal(t, "0917", got.ContactNumber)
	assert.Equal(t, "ana", got.Username)

	taken := other.Username
	assert.ErrorIs(t, db.UpdateProfile(ctx, u.ID, models.ProfilePatch{Username: &taken}), ErrDuplicate)
	assert.NoError(t, db.UpdateProfile(ctx, u.ID, models.ProfilePatch{}))
}
