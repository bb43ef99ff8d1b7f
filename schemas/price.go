package schemas

import (
	"time"

	"github.com/shopspring/decimal"
)

// BoardPrice is one price-board row reshaped from the SSI group feed
type BoardPrice struct {
	Ticker        string          `json:"ticker"`
	Exchange      string          `json:"exchange"`
	RefPrice      decimal.Decimal `json:"ref_price"`
	CeilingPrice  decimal.Decimal `json:"ceiling_price"`
	FloorPrice    decimal.Decimal `json:"floor_price"`
	OpenPrice     decimal.Decimal `json:"open_price"`
	HighestPrice  decimal.Decimal `json:"highest_price"`
	LowestPrice   decimal.Decimal `json:"lowest_price"`
	MatchPrice    decimal.Decimal `json:"match_price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	TotalVolume   decimal.Decimal `json:"total_volume"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// BoardSnapshot is a full price-board sync result
type BoardSnapshot struct {
	SyncedAt time.Time    `json:"synced_at"`
	Prices   []BoardPrice `json:"prices"`
}
