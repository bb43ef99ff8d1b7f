package services

import (
	"context"

	"go.uber.org/zap"

	"stockk_backend/models"
	"stockk_backend/repository"
)

// TickerCrawler keeps the local ticker catalog in sync with the SSI
// organization master list, classifying new tickers with TCBS industry data.
type TickerCrawler struct {
	ssi        *SSIService
	tcbs       *TCBSService
	tickers    *repository.TickerRepository
	industries *repository.IndustryRepository
	logger     *zap.Logger
}

// NewTickerCrawler creates the catalog sync job
func NewTickerCrawler(
	ssi *SSIService,
	tcbs *TCBSService,
	tickers *repository.TickerRepository,
	industries *repository.IndustryRepository,
	logger *zap.Logger,
) *TickerCrawler {
	return &TickerCrawler{
		ssi:        ssi,
		tcbs:       tcbs,
		tickers:    tickers,
		industries: industries,
		logger:     logger,
	}
}

// mapExchange translates an SSI comGroupCode into a local exchange name.
// Unknown groups (indices, bonds) map to empty and the row is kept without
// an exchange rather than dropped.
func mapExchange(comGroupCode string) string {
	switch comGroupCode {
	case "VNINDEX":
		return models.ExchangeHOSE
	case "HNXIndex":
		return models.ExchangeHNX
	case "UpcomIndex":
		return models.ExchangeUPCOM
	default:
		return ""
	}
}

// Run performs one crawl cycle. Failures on individual tickers are logged
// and skipped so a single bad upstream row cannot stall the whole sync.
func (c *TickerCrawler) Run(ctx context.Context) error {
	organizations, err := c.ssi.ListOrganizations(ctx)
	if err != nil {
		c.logger.Error("failed to fetch organization list", zap.Error(err))
		return err
	}

	known, err := c.tickers.AllSymbols(ctx)
	if err != nil {
		c.logger.Error("failed to load known tickers", zap.Error(err))
		return err
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, symbol := range known {
		knownSet[symbol] = struct{}{}
	}

	var created, skipped int
	for _, org := range organizations {
		if org.Ticker == "" {
			continue
		}
		if _, ok := knownSet[org.Ticker]; ok {
			continue
		}

		overview, err := c.tcbs.TickerOverview(ctx, org.Ticker)
		if err != nil {
			c.logger.Warn("failed to fetch ticker overview, skipping",
				zap.String("ticker", org.Ticker), zap.Error(err))
			skipped++
			continue
		}

		var industryID *uint
		if overview.IndustryID != 0 {
			industry, _, err := c.industries.GetOrCreate(ctx, overview.IndustryID, overview.Industry, overview.IndustryEn)
			if err != nil {
				c.logger.Warn("failed to upsert industry, skipping ticker",
					zap.String("ticker", org.Ticker),
					zap.Uint("industry_id", overview.IndustryID),
					zap.Error(err))
				skipped++
				continue
			}
			industryID = &industry.ID
		}

		ticker := &models.Ticker{
			Ticker:     org.Ticker,
			Exchange:   mapExchange(org.ComGroupCode),
			Name:       org.Ticker,
			FullName:   org.OrganName,
			ShortName:  org.OrganShortName,
			Type:       models.TickerTypeVNStock,
			IndustryID: industryID,
		}
		if err := c.tickers.Create(ctx, ticker); err != nil {
			c.logger.Warn("failed to create ticker, skipping",
				zap.String("ticker", org.Ticker), zap.Error(err))
			skipped++
			continue
		}
		created++
	}

	c.logger.Info("ticker crawl finished",
		zap.Int("upstream", len(organizations)),
		zap.Int("created", created),
		zap.Int("skipped", skipped))
	return nil
}
