package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"stockk_backend/config"
	"stockk_backend/models"
	"stockk_backend/repository"
	"stockk_backend/routes"
	"stockk_backend/scheduler"
	"stockk_backend/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()
	logger.Info("starting stockk backend", zap.String("environment", cfg.Environment))

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := runMigrations(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("database migrations completed")

	// Shared services
	oidc := services.NewOIDCService(cfg, logger)
	ssi := services.NewSSIService(cfg, logger)
	tcbs := services.NewTCBSService(cfg, logger)
	board := services.NewPriceBoardService(cfg, logger)
	archive, err := services.NewPriceArchive(context.Background(), cfg, logger)
	if err != nil {
		logger.Warn("price archive unavailable", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestLogger(logger))

	routes.SetupRoutes(router, routes.Deps{
		Config:  cfg,
		DB:      db,
		Logger:  logger,
		OIDC:    oidc,
		SSI:     ssi,
		TCBS:    tcbs,
		Board:   board,
		Archive: archive,
	})

	crawler := services.NewTickerCrawler(ssi, tcbs,
		repository.NewTickerRepository(db), repository.NewIndustryRepository(db), logger)
	jobScheduler := scheduler.NewScheduler(cfg, crawler, board, archive, logger)
	jobScheduler.Start()

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	gracefulShutdown(server, jobScheduler, board, archive, db, logger)
}

// newLogger builds the process logger; development gets the console format
func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.Environment == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}

// runMigrations runs all database migrations
func runMigrations(db *gorm.DB) error {
	if err := models.MigrateUserModels(db); err != nil {
		return err
	}
	if err := models.MigrateCatalogModels(db); err != nil {
		return err
	}
	return models.MigrateChartModels(db)
}

// corsMiddleware returns a CORS middleware handler
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLogger logs non-health requests after completion
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || path == "/ready" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

// gracefulShutdown drains the server and stops the background machinery
func gracefulShutdown(
	server *http.Server,
	jobScheduler *scheduler.Scheduler,
	board *services.PriceBoardService,
	archive *services.PriceArchive,
	db *gorm.DB,
	logger *zap.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))

	jobScheduler.Stop()
	board.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
	if err := archive.Close(ctx); err != nil {
		logger.Warn("failed to close price archive", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server shutdown completed")
}
