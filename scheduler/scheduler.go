package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"stockk_backend/config"
	"stockk_backend/services"
)

// Scheduler manages the background jobs: the daily ticker crawl and the
// recurring price-board sync.
type Scheduler struct {
	cron     *gocron.Scheduler
	location *time.Location
	cfg      *config.Config
	crawler  *services.TickerCrawler
	board    *services.PriceBoardService
	archive  *services.PriceArchive
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	cfg *config.Config,
	crawler *services.TickerCrawler,
	board *services.PriceBoardService,
	archive *services.PriceArchive,
	logger *zap.Logger,
) *Scheduler {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to UTC",
			zap.String("timezone", cfg.TimeZone), zap.Error(err))
		location = time.UTC
	}
	return &Scheduler{
		cron:     gocron.NewScheduler(location),
		location: location,
		cfg:      cfg,
		crawler:  crawler,
		board:    board,
		archive:  archive,
		logger:   logger,
	}
}

// Start registers and starts all scheduled jobs
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("crawl_at", s.cfg.TickerCrawlAt),
		zap.Int("price_sync_interval_sec", s.cfg.PriceSyncIntervalSec))

	// Crawl the ticker catalog daily after market close
	s.cron.Every(1).Day().At(s.cfg.TickerCrawlAt).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := s.crawler.Run(ctx); err != nil {
			s.logger.Error("ticker crawl failed", zap.Error(err))
		}
	})

	// Sync the price board during trading hours
	s.cron.Every(s.cfg.PriceSyncIntervalSec).Seconds().Do(func() {
		if !isMarketOpen(s.location) {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.board.Sync(ctx); err != nil {
			s.logger.Warn("price board sync failed", zap.Error(err))
			return
		}
		if err := s.archive.Store(ctx, s.board.Snapshot(nil)); err != nil {
			s.logger.Warn("price board archive failed", zap.Error(err))
		}
	})

	s.cron.StartAsync()
	s.logger.Info("scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

// isMarketOpen checks whether the Vietnamese stock market is trading
func isMarketOpen(location *time.Location) bool {
	now := time.Now().In(location)
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false
	}
	// HOSE/HNX sessions run 09:00-11:30 and 13:00-15:00
	hour := now.Hour()
	return hour >= 9 && hour < 15
}
