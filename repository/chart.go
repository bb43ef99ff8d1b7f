package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stockk_backend/models"
)

// chartListColumns excludes content so list views never drag full JSON
// bodies out of the database.
var chartListColumns = []string{"id", "owner_source", "owner_id", "name", "symbol", "resolution", "last_modified"}

// ChartRepository adds owner-scoped access on top of the generic base
type ChartRepository struct {
	*Repository[models.Chart]
}

// NewChartRepository creates a chart repository
func NewChartRepository(db *gorm.DB) *ChartRepository {
	return &ChartRepository{Repository: NewRepository[models.Chart](db)}
}

// ListByOwner returns the owner's charts without the content column
func (r *ChartRepository) ListByOwner(ctx context.Context, ownerSource, ownerID string) ([]models.Chart, error) {
	var charts []models.Chart
	err := r.DB().WithContext(ctx).
		Select(chartListColumns).
		Where("owner_source = ? AND owner_id = ?", ownerSource, ownerID).
		Order("id asc").
		Find(&charts).Error
	if err != nil {
		return nil, err
	}
	return charts, nil
}

// GetByIDAndOwner returns the chart only when it belongs to the owner pair,
// or nil when absent
func (r *ChartRepository) GetByIDAndOwner(ctx context.Context, id uint, ownerSource, ownerID string) (*models.Chart, error) {
	var chart models.Chart
	err := r.DB().WithContext(ctx).
		Where("id = ? AND owner_source = ? AND owner_id = ?", id, ownerSource, ownerID).
		First(&chart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chart, nil
}
