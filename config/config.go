package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds all runtime configuration. It is built once in main and
// passed to every component that needs it.
type Config struct {
	Port        string
	Environment string
	TimeZone    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Local access tokens issued by /login/exchange-oidc-token.
	JWTSecret                string
	AccessTokenExpireMinutes int

	// External identity provider (OIDC discovery document URL).
	OIDCDiscoveryURL string

	// Market data upstreams.
	SSIHistoryURL      string
	SSIOrganizationURL string
	SSIPriceBoardURL   string
	TCBSSearchURL      string
	TCBSOverviewURL    string

	// Background jobs.
	TickerCrawlAt        string // "HH:MM" local time of the daily crawl
	PriceSyncIntervalSec int

	// Optional MongoDB archive for price board snapshots.
	MongoURI string
}

// LoadConfig loads environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		TimeZone:    getEnv("TIME_ZONE", "Asia/Ho_Chi_Minh"),

		DBHost:     getEnv("POSTGRES_HOST", "localhost"),
		DBPort:     getEnv("POSTGRES_PORT", "5432"),
		DBUser:     getEnv("POSTGRES_USER", "postgres"),
		DBPassword: getEnv("POSTGRES_PASSWORD", ""),
		DBName:     getEnv("POSTGRES_DB", "stockk"),
		DBSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		JWTSecret:                getEnv("SECRET_KEY", "your-secret-key"),
		AccessTokenExpireMinutes: getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60*24*8),

		OIDCDiscoveryURL: getEnv("OIDC_DISCOVERY_URL", ""),

		SSIHistoryURL:      getEnv("SSI_HISTORY_URL", "https://iboard.ssi.com.vn/dchart/api/history"),
		SSIOrganizationURL: getEnv("SSI_ORGANIZATION_URL", "https://fiin-core.ssi.com.vn/Master/GetListOrganization?language=vi"),
		SSIPriceBoardURL:   getEnv("SSI_PRICE_BOARD_URL", "https://iboard-query.ssi.com.vn/v2/stock/group/"),
		TCBSSearchURL:      getEnv("TCBS_SEARCH_URL", "https://apipubaws.tcbs.com.vn/stock-insight/v1/search"),
		TCBSOverviewURL:    getEnv("TCBS_OVERVIEW_URL", "https://apipubaws.tcbs.com.vn/tcanalysis/v1/ticker"),

		TickerCrawlAt:        getEnv("TICKER_CRAWL_AT", "01:00"),
		PriceSyncIntervalSec: getEnvInt("PRICE_SYNC_INTERVAL_SEC", 30),

		MongoURI: getEnv("MONGODB_URI", ""),
	}

	return cfg, nil
}

// InitDB initializes the database connection
func InitDB(cfg *Config) (*gorm.DB, error) {
	log.Printf("Connecting to database: host=%s port=%s user=%s dbname=%s",
		maskHost(cfg.DBHost),
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBName,
	)

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		cfg.TimeZone,
	)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// maskHost masks host for logging, preserving domain structure
func maskHost(host string) string {
	if len(host) <= 3 {
		return "***"
	}
	if len(host) <= 15 {
		return host[:3] + "***"
	}
	return host[:8] + "***" + host[len(host)-10:]
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
