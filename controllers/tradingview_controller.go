package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockk_backend/models"
	"stockk_backend/repository"
	"stockk_backend/schemas"
	"stockk_backend/services"
)

// supportedResolutions are the bar sizes the upstream datafeed serves
var supportedResolutions = []string{"1", "5", "15", "30", "60", "D", "W", "M"}

// TradingViewController implements the UDF datafeed protocol: static
// config, symbol resolution and search against the local catalog, and bar
// history proxied from SSI.
type TradingViewController struct {
	tickers *repository.TickerRepository
	ssi     *services.SSIService
	logger  *zap.Logger
}

// NewTradingViewController creates a new datafeed controller
func NewTradingViewController(tickers *repository.TickerRepository, ssi *services.SSIService, logger *zap.Logger) *TradingViewController {
	return &TradingViewController{tickers: tickers, ssi: ssi, logger: logger}
}

// GetTime returns the server time as plain unix seconds
// GET /api/v0/tradingview/time
func (ctl *TradingViewController) GetTime(c *gin.Context) {
	c.String(http.StatusOK, strconv.FormatInt(time.Now().Unix(), 10))
}

// GetConfig returns the static datafeed configuration
// GET /api/v0/tradingview/config
func (ctl *TradingViewController) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, schemas.TVConfig{
		Exchanges: []schemas.TVExchange{
			{Name: "All Exchanges", Value: "", Desc: ""},
			{Name: "HOSE", Value: models.ExchangeHOSE, Desc: "Ho Chi Minh Stock Exchange"},
			{Name: "HNX", Value: models.ExchangeHNX, Desc: "Hanoi Stock Exchange"},
			{Name: "UPCOM", Value: models.ExchangeUPCOM, Desc: "Unlisted Public Company Market"},
		},
		SupportedResolutions: supportedResolutions,
		SupportsMarks:        false,
		SupportsTime:         true,
		SymbolsTypes: []schemas.TVSymbolType{
			{Name: "All types", Value: ""},
			{Name: "Stock", Value: "stock"},
			{Name: "Index", Value: "index"},
			{Name: "Crypto", Value: "crypto"},
		},
		SupportsSearch:       true,
		SupportsGroupRequest: false,
	})
}

// tvType maps the catalog ticker type onto the datafeed's type vocabulary
func tvType(tickerType string) string {
	if tickerType == models.TickerTypeVNStock {
		return "stock"
	}
	return "crypto"
}

// GetSymbols resolves one symbol against the local catalog
// GET /api/v0/tradingview/symbols?symbol=
func (ctl *TradingViewController) GetSymbols(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		respondError(c, http.StatusBadRequest, "symbol is required")
		return
	}

	ticker, err := ctl.tickers.GetByTicker(c.Request.Context(), symbol)
	if err != nil {
		ctl.logger.Error("failed to resolve symbol", zap.String("symbol", symbol), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to resolve symbol")
		return
	}
	if ticker == nil {
		respondError(c, http.StatusNotFound, "Ticker not found")
		return
	}

	session := "24x7"
	timezone := "UTC"
	if ticker.Type == models.TickerTypeVNStock {
		session = "0900-1130,1300-1500"
		timezone = "Asia/Ho_Chi_Minh"
	}
	c.JSON(http.StatusOK, schemas.TVSymbolInfo{
		Name:                 ticker.Name,
		FullName:             ticker.ShortName,
		Ticker:               ticker.Ticker,
		Description:          ticker.FullName,
		Type:                 tvType(ticker.Type),
		Session:              session,
		Exchange:             ticker.Exchange,
		ListedExchange:       ticker.Exchange,
		Timezone:             timezone,
		Format:               "price",
		Pricescale:           100,
		Minmov:               1,
		Minmove2:             0,
		SupportedResolutions: supportedResolutions,
		HasDaily:             true,
		HasEmptyBars:         false,
		HasIntraday:          true,
		HasNoVolume:          false,
		HasWeeklyAndMonthly:  true,
		IntradayMultipliers:  []string{"1", "5", "15", "30", "60"},
	})
}

// GetSearch searches the catalog by ticker prefix
// GET /api/v0/tradingview/search?query=&limit=[&type=&exchange=]
func (ctl *TradingViewController) GetSearch(c *gin.Context) {
	query := c.Query("query")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if err != nil || limit <= 0 {
		respondError(c, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	tickers, err := ctl.tickers.SearchByTicker(c.Request.Context(), query, limit,
		c.Query("type"), c.Query("exchange"))
	if err != nil {
		ctl.logger.Error("symbol search failed", zap.String("query", query), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Search failed")
		return
	}

	results := make([]schemas.TVSearchResult, 0, len(tickers))
	for _, ticker := range tickers {
		results = append(results, schemas.TVSearchResult{
			Symbol:      ticker.Ticker,
			FullName:    ticker.ShortName,
			Description: ticker.FullName,
			Exchange:    ticker.Exchange,
			Ticker:      ticker.Ticker,
			Type:        tvType(ticker.Type),
		})
	}
	c.JSON(http.StatusOK, results)
}

// GetHistory proxies bar history from the SSI chart API
// GET /api/v0/tradingview/history?symbol=&resolution=&from=&to=
func (ctl *TradingViewController) GetHistory(c *gin.Context) {
	symbol := c.Query("symbol")
	resolution := c.Query("resolution")
	from, errFrom := strconv.ParseInt(c.Query("from"), 10, 64)
	to, errTo := strconv.ParseInt(c.Query("to"), 10, 64)
	if symbol == "" || resolution == "" || errFrom != nil || errTo != nil {
		respondError(c, http.StatusBadRequest, "symbol, resolution, from and to are required")
		return
	}

	history, err := ctl.ssi.History(c.Request.Context(), symbol, resolution, from, to)
	if err != nil {
		var upstream *services.UpstreamError
		if errors.As(err, &upstream) {
			respondError(c, upstream.StatusCode, upstream.Message)
			return
		}
		ctl.logger.Error("history proxy failed", zap.String("symbol", symbol), zap.Error(err))
		respondError(c, http.StatusBadGateway, "Failed to fetch history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetStub answers protocol endpoints this datafeed does not serve
// GET /api/v0/tradingview/{symbol_info,marks,timescale_marks,quotes}
func (ctl *TradingViewController) GetStub(c *gin.Context) {
	c.JSON(http.StatusOK, nil)
}
