package models

import (
	"time"

	"gorm.io/gorm"
)

// Exchange codes for Vietnamese markets
const (
	ExchangeHOSE  = "HOSE"
	ExchangeHNX   = "HNX"
	ExchangeUPCOM = "UPCOM"
)

// Ticker types
const (
	TickerTypeVNStock = "vn_stock"
	TickerTypeCrypto  = "crypto"
)

// ValidExchanges returns the supported exchange codes
func ValidExchanges() []string {
	return []string{ExchangeHOSE, ExchangeHNX, ExchangeUPCOM}
}

// IsValidExchange checks if the exchange code is valid
func IsValidExchange(exchange string) bool {
	for _, valid := range ValidExchanges() {
		if exchange == valid {
			return true
		}
	}
	return false
}

// Industry is reference data keyed by the ID the upstream provider assigns.
// Rows are created idempotently by the ticker crawl.
type Industry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string    `json:"name"`
	EnName    string    `json:"en_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Ticker represents a tradable symbol in the reference catalog
type Ticker struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Ticker     string    `gorm:"uniqueIndex;not null" json:"ticker"`
	Exchange   string    `gorm:"index" json:"exchange"` // HOSE, HNX, UPCOM or "" when unknown
	Name       string    `json:"name"`
	FullName   string    `json:"full_name"`
	ShortName  string    `json:"short_name"`
	Type       string    `gorm:"index" json:"type"` // vn_stock, crypto
	IndustryID *uint     `json:"industry_id"`
	Industry   *Industry `gorm:"foreignKey:IndustryID" json:"industry,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MigrateCatalogModels runs database migrations for reference-data models
func MigrateCatalogModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&Industry{},
		&Ticker{},
	)
}
