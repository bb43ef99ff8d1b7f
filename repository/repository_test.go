package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockk_backend/models"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	require.NoError(t, models.MigrateUserModels(db), "failed to migrate user models")
	require.NoError(t, models.MigrateCatalogModels(db), "failed to migrate catalog models")
	require.NoError(t, models.MigrateChartModels(db), "failed to migrate chart models")

	return db
}

func TestRepository_GetAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.Get(context.Background(), 42)

	assert.NoError(t, err, "absent row must not be an error")
	assert.Nil(t, user)
}

func TestRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{Email: "alice@example.com", FullName: "Alice"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotZero(t, user.ID, "ID is not set")

	got, err := repo.Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.True(t, got.IsActive, "users default to active")
}

func TestRepository_ListAndCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.NoError(t, repo.Create(ctx, &models.User{Email: email}))
	}

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b@x.com", page[0].Email, "list must be ordered by primary key")

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "alice@example.com", FullName: "Alice"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.Update(ctx, user, map[string]any{"full_name": "Alice Updated"}))

	got, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", got.FullName)
	assert.Equal(t, "alice@example.com", got.Email, "untouched columns survive a partial update")
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Email: "alice@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))

	got, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repo.Delete(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound, "deleting a missing row is an error")
}

func TestUserRepository_GetOrCreateByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, created, err := repo.GetOrCreateByEmail(ctx, "bob@example.com", "Bob")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, user.ID)

	again, created, err := repo.GetOrCreateByEmail(ctx, "bob@example.com", "Ignored")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "Bob", again.FullName, "existing profile is not overwritten")
}

func TestItemRepository_OwnerScoping(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	items := NewItemRepository(db)
	ctx := context.Background()

	alice := &models.User{Email: "alice@example.com"}
	bob := &models.User{Email: "bob@example.com"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	require.NoError(t, items.CreateWithOwner(ctx, &models.Item{Title: "a1"}, alice.ID))
	require.NoError(t, items.CreateWithOwner(ctx, &models.Item{Title: "a2"}, alice.ID))
	require.NoError(t, items.CreateWithOwner(ctx, &models.Item{Title: "b1"}, bob.ID))

	got, err := items.ListByOwner(ctx, alice.ID, 0, 50)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, item := range got {
		assert.Equal(t, alice.ID, item.OwnerID)
	}

	total, err := items.CountByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
