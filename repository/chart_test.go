package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"stockk_backend/models"
)

func seedChart(t *testing.T, repo *ChartRepository, ownerSource, ownerID, name string) *models.Chart {
	t.Helper()
	chart := &models.Chart{
		OwnerSource: ownerSource,
		OwnerID:     ownerID,
		Name:        name,
		Symbol:      "VNM",
		Resolution:  "D",
		Content:     datatypes.JSON(`{"layout":"single"}`),
	}
	require.NoError(t, repo.Create(context.Background(), chart))
	return chart
}

func TestChartRepository_ListByOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChartRepository(db)
	ctx := context.Background()

	seedChart(t, repo, "tv", "user-1", "first")
	seedChart(t, repo, "tv", "user-1", "second")
	seedChart(t, repo, "tv", "user-2", "other owner")
	seedChart(t, repo, "web", "user-1", "other client")

	charts, err := repo.ListByOwner(ctx, "tv", "user-1")
	require.NoError(t, err)
	require.Len(t, charts, 2)
	for _, chart := range charts {
		assert.Empty(t, chart.Content, "list projection must not load content")
		assert.False(t, chart.LastModified.IsZero())
	}
}

func TestChartRepository_DuplicateNamesAllowed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChartRepository(db)

	first := seedChart(t, repo, "tv", "user-1", "my chart")
	second := seedChart(t, repo, "tv", "user-1", "my chart")

	assert.NotEqual(t, first.ID, second.ID, "same-name charts are distinct rows")
}

func TestChartRepository_GetByIDAndOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChartRepository(db)
	ctx := context.Background()

	chart := seedChart(t, repo, "tv", "user-1", "mine")

	got, err := repo.GetByIDAndOwner(ctx, chart.ID, "tv", "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"layout":"single"}`, string(got.Content))

	// Another owner's id must read as absent, not as an error
	got, err = repo.GetByIDAndOwner(ctx, chart.ID, "tv", "user-2")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByIDAndOwner(ctx, 9999, "tv", "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestChartRepository_UpdateRefreshesLastModified(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChartRepository(db)
	ctx := context.Background()

	chart := seedChart(t, repo, "tv", "user-1", "mine")
	created := chart.LastModified

	require.NoError(t, repo.Update(ctx, chart, map[string]any{
		"name":    "renamed",
		"content": datatypes.JSON(`{"layout":"grid"}`),
	}))

	got, err := repo.GetByIDAndOwner(ctx, chart.ID, "tv", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.False(t, got.LastModified.Before(created), "lastModified must not move backwards")
}
