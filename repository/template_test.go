package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDrawingTemplateRepository_GetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDrawingTemplateRepository(db)
	ctx := context.Background()

	template, created, err := repo.GetOrCreate(ctx, "tv", "user-1", "arrows", "trend_line",
		datatypes.JSON(`{"color":"red"}`))
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, template)
	assert.NotZero(t, template.ID)

	// Same key again: found, not created, original content kept
	again, created, err := repo.GetOrCreate(ctx, "tv", "user-1", "arrows", "trend_line",
		datatypes.JSON(`{"color":"blue"}`))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, template.ID, again.ID)
	assert.JSONEq(t, `{"color":"red"}`, string(again.Content))

	// Same name under another owner is a fresh row
	other, created, err := repo.GetOrCreate(ctx, "tv", "user-2", "arrows", "trend_line",
		datatypes.JSON(`{"color":"green"}`))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, template.ID, other.ID)
}

func TestDrawingTemplateRepository_ListByOwnerAndTool(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDrawingTemplateRepository(db)
	ctx := context.Background()

	for _, fixture := range []struct{ name, tool string }{
		{"arrows", "trend_line"},
		{"channels", "trend_line"},
		{"fib", "fib_retracement"},
	} {
		_, _, err := repo.GetOrCreate(ctx, "tv", "user-1", fixture.name, fixture.tool,
			datatypes.JSON(`{}`))
		require.NoError(t, err)
	}

	templates, err := repo.ListByOwnerAndTool(ctx, "tv", "user-1", "trend_line")
	require.NoError(t, err)
	require.Len(t, templates, 2)
	for _, template := range templates {
		assert.Empty(t, template.Content, "list projection must not load content")
	}
}

func TestDrawingTemplateRepository_Lookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDrawingTemplateRepository(db)
	ctx := context.Background()

	_, _, err := repo.GetOrCreate(ctx, "tv", "user-1", "arrows", "trend_line", datatypes.JSON(`{}`))
	require.NoError(t, err)

	got, err := repo.GetByOwnerToolName(ctx, "tv", "user-1", "trend_line", "arrows")
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Wrong tool reads as absent
	got, err = repo.GetByOwnerToolName(ctx, "tv", "user-1", "fib_retracement", "arrows")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByOwnerName(ctx, "tv", "user-1", "arrows")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestStudyTemplateRepository_GetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudyTemplateRepository(db)
	ctx := context.Background()

	template, created, err := repo.GetOrCreate(ctx, "tv", "user-1", "rsi+macd",
		datatypes.JSON(`{"studies":["rsi","macd"]}`))
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.GetOrCreate(ctx, "tv", "user-1", "rsi+macd",
		datatypes.JSON(`{"studies":[]}`))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, template.ID, again.ID)
}

func TestStudyTemplateRepository_ListByOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudyTemplateRepository(db)
	ctx := context.Background()

	for _, name := range []string{"one", "two"} {
		_, _, err := repo.GetOrCreate(ctx, "tv", "user-1", name, datatypes.JSON(`{}`))
		require.NoError(t, err)
	}
	_, _, err := repo.GetOrCreate(ctx, "tv", "user-2", "three", datatypes.JSON(`{}`))
	require.NoError(t, err)

	templates, err := repo.ListByOwner(ctx, "tv", "user-1")
	require.NoError(t, err)
	assert.Len(t, templates, 2)
}
