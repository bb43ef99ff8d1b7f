package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockk_backend/config"
	"stockk_backend/models"
	"stockk_backend/repository"
)

func setupCatalogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.MigrateCatalogModels(db))
	return db
}

// newFakeMarketData serves the SSI organization list and TCBS overviews
func newFakeMarketData(t *testing.T, organizations []SSIOrganization, overviews map[string]TCBSTickerOverview) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/organizations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": organizations})
	})
	mux.HandleFunc("/overview/", func(w http.ResponseWriter, r *http.Request) {
		// path: /overview/{ticker}/overview
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		overview, ok := overviews[parts[1]]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(overview)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newCrawler(t *testing.T, db *gorm.DB, upstream *httptest.Server) (*TickerCrawler, *repository.TickerRepository, *repository.IndustryRepository) {
	t.Helper()
	cfg := &config.Config{
		SSIOrganizationURL: upstream.URL + "/organizations",
		TCBSOverviewURL:    upstream.URL + "/overview",
	}
	tickers := repository.NewTickerRepository(db)
	industries := repository.NewIndustryRepository(db)
	crawler := NewTickerCrawler(
		NewSSIService(cfg, zap.NewNop()),
		NewTCBSService(cfg, zap.NewNop()),
		tickers, industries, zap.NewNop())
	return crawler, tickers, industries
}

func TestTickerCrawler_Run(t *testing.T) {
	upstream := newFakeMarketData(t,
		[]SSIOrganization{
			{Ticker: "VNM", OrganName: "Vinamilk JSC", OrganShortName: "Vinamilk", ComGroupCode: "VNINDEX"},
			{Ticker: "SHS", OrganName: "Saigon Hanoi Securities", OrganShortName: "SHS", ComGroupCode: "HNXIndex"},
			{Ticker: "BSR", OrganName: "Binh Son Refining", OrganShortName: "BSR", ComGroupCode: "UpcomIndex"},
		},
		map[string]TCBSTickerOverview{
			"VNM": {Ticker: "VNM", IndustryID: 8600, Industry: "Thực phẩm", IndustryEn: "Food Producers"},
			"SHS": {Ticker: "SHS", IndustryID: 8700, Industry: "Chứng khoán", IndustryEn: "Securities"},
			"BSR": {Ticker: "BSR", IndustryID: 8600, Industry: "Thực phẩm", IndustryEn: "Food Producers"},
		})

	db := setupCatalogDB(t)
	crawler, tickers, industries := newCrawler(t, db, upstream)

	require.NoError(t, crawler.Run(context.Background()))

	vnm, err := tickers.GetByTicker(context.Background(), "VNM")
	require.NoError(t, err)
	require.NotNil(t, vnm)
	assert.Equal(t, models.ExchangeHOSE, vnm.Exchange)
	assert.Equal(t, "Vinamilk JSC", vnm.FullName)
	assert.Equal(t, "Vinamilk", vnm.ShortName)
	assert.Equal(t, models.TickerTypeVNStock, vnm.Type)
	require.NotNil(t, vnm.IndustryID)
	assert.Equal(t, uint(8600), *vnm.IndustryID)

	shs, err := tickers.GetByTicker(context.Background(), "SHS")
	require.NoError(t, err)
	assert.Equal(t, models.ExchangeHNX, shs.Exchange)

	bsr, err := tickers.GetByTicker(context.Background(), "BSR")
	require.NoError(t, err)
	assert.Equal(t, models.ExchangeUPCOM, bsr.Exchange)

	// Shared industry is one row
	total, err := industries.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestTickerCrawler_RunIsIdempotent(t *testing.T) {
	upstream := newFakeMarketData(t,
		[]SSIOrganization{
			{Ticker: "VNM", OrganName: "Vinamilk JSC", ComGroupCode: "VNINDEX"},
		},
		map[string]TCBSTickerOverview{
			"VNM": {Ticker: "VNM", IndustryID: 8600, Industry: "Thực phẩm", IndustryEn: "Food Producers"},
		})

	db := setupCatalogDB(t)
	crawler, tickers, _ := newCrawler(t, db, upstream)

	require.NoError(t, crawler.Run(context.Background()))
	require.NoError(t, crawler.Run(context.Background()))

	total, err := tickers.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "known tickers are skipped on retry")
}

func TestTickerCrawler_SkipsFailedOverviews(t *testing.T) {
	// GOOD has an overview, BAD does not; the run keeps going
	upstream := newFakeMarketData(t,
		[]SSIOrganization{
			{Ticker: "BAD", OrganName: "Broken", ComGroupCode: "VNINDEX"},
			{Ticker: "GOOD", OrganName: "Works", ComGroupCode: "VNINDEX"},
		},
		map[string]TCBSTickerOverview{
			"GOOD": {Ticker: "GOOD", IndustryID: 100, Industry: "x", IndustryEn: "x"},
		})

	db := setupCatalogDB(t)
	crawler, tickers, _ := newCrawler(t, db, upstream)

	require.NoError(t, crawler.Run(context.Background()))

	good, err := tickers.GetByTicker(context.Background(), "GOOD")
	require.NoError(t, err)
	assert.NotNil(t, good)

	bad, err := tickers.GetByTicker(context.Background(), "BAD")
	require.NoError(t, err)
	assert.Nil(t, bad, "failed overview rows are skipped, not inserted")
}

func TestTickerCrawler_AbortsWhenOrganizationListFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	db := setupCatalogDB(t)
	crawler, tickers, _ := newCrawler(t, db, server)

	assert.Error(t, crawler.Run(context.Background()))

	total, err := tickers.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMapExchange(t *testing.T) {
	assert.Equal(t, models.ExchangeHOSE, mapExchange("VNINDEX"))
	assert.Equal(t, models.ExchangeHNX, mapExchange("HNXIndex"))
	assert.Equal(t, models.ExchangeUPCOM, mapExchange("UpcomIndex"))
	assert.Equal(t, "", mapExchange("VNBOND"))
}
