package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindAllIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	u1 := createTestUser(t, db, "aruzhan")
	u2 := createTestUser(t, db, "bekzat")

	ids, err := repo.FindAllIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{u1.ID, u2.ID}, ids)
}

func TestUserRepository_UpdateFCMToken(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := createTestUser(t, db, "aruzhan")

	require.NoError(t, repo.UpdateFCMToken(user.ID, "fcm-token-1"))

	got, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "fcm-token-1", got.FCMToken)

	assert.ErrorIs(t, repo.UpdateFCMToken("missing", "token"), ErrUserNotFound)
}

func TestUserRepository_FindByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	u1 := createTestUser(t, db, "aruzhan")
	createTestUser(t, db, "bekzat")

	users, err := repo.FindByIDs([]string{u1.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, u1.ID, users[0].ID)

	users, err = repo.FindByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}
