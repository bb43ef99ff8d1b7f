package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stockk_backend/models"
)

// TickerRepository adds symbol lookups and prefix search
type TickerRepository struct {
	*Repository[models.Ticker]
}

// NewTickerRepository creates a ticker repository
func NewTickerRepository(db *gorm.DB) *TickerRepository {
	return &TickerRepository{Repository: NewRepository[models.Ticker](db)}
}

// GetByTicker returns the ticker with the given symbol, or nil
func (r *TickerRepository) GetByTicker(ctx context.Context, symbol string) (*models.Ticker, error) {
	var ticker models.Ticker
	err := r.DB().WithContext(ctx).Where("ticker = ?", symbol).First(&ticker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticker, nil
}

// SearchByTicker returns at most limit tickers whose symbol starts with
// prefix, sorted ascending by symbol. Empty type/exchange filters are
// ignored; non-empty ones narrow by equality.
func (r *TickerRepository) SearchByTicker(ctx context.Context, prefix string, limit int, tickerType, exchange string) ([]models.Ticker, error) {
	query := r.DB().WithContext(ctx).
		Where("ticker LIKE ?", prefix+"%").
		Order("ticker asc").
		Limit(limit)
	if tickerType != "" {
		query = query.Where("type = ?", tickerType)
	}
	if exchange != "" {
		query = query.Where("exchange = ?", exchange)
	}

	var tickers []models.Ticker
	if err := query.Find(&tickers).Error; err != nil {
		return nil, err
	}
	return tickers, nil
}

// AllSymbols returns every known ticker symbol (used by the crawl diff)
func (r *TickerRepository) AllSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := r.DB().WithContext(ctx).
		Model(&models.Ticker{}).
		Order("ticker asc").
		Pluck("ticker", &symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// IndustryRepository manages upstream-keyed industry reference data
type IndustryRepository struct {
	*Repository[models.Industry]
}

// NewIndustryRepository creates an industry repository
func NewIndustryRepository(db *gorm.DB) *IndustryRepository {
	return &IndustryRepository{Repository: NewRepository[models.Industry](db)}
}

// GetOrCreate returns the industry with the upstream-assigned id, inserting
// it when absent. Concurrent creators racing on the same id are resolved by
// ON CONFLICT DO NOTHING plus a re-read.
func (r *IndustryRepository) GetOrCreate(ctx context.Context, id uint, name, enName string) (*models.Industry, bool, error) {
	if existing, err := r.Get(ctx, id); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	industry := models.Industry{ID: id, Name: name, EnName: enName}
	res := r.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&industry)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &industry, true, nil
	}

	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
