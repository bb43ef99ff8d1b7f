package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"stockk_backend/config"
)

// TCBSTickerOverview is the subset of the TCBS company overview we use to
// classify tickers by industry.
type TCBSTickerOverview struct {
	Ticker     string `json:"ticker"`
	Exchange   string `json:"exchange"`
	IndustryID uint   `json:"industryID"`
	Industry   string `json:"industry"`
	IndustryEn string `json:"industryEn"`
}

// TCBSService proxies the public TCBS stock-insight and tcanalysis APIs
type TCBSService struct {
	searchURL   string
	overviewURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewTCBSService creates a TCBS market-data client
func NewTCBSService(cfg *config.Config, logger *zap.Logger) *TCBSService {
	return &TCBSService{
		searchURL:   cfg.TCBSSearchURL,
		overviewURL: cfg.TCBSOverviewURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// Search forwards a full-text search query to TCBS and returns the raw
// JSON body so the payload reaches the caller unchanged.
func (s *TCBSService) Search(ctx context.Context, key string, page, pageSize int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("key", key)
	params.Set("type", "all")
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search tcbs: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return json.RawMessage(body), nil
}

// TickerOverview fetches the company overview for one ticker
func (s *TCBSService) TickerOverview(ctx context.Context, ticker string) (*TCBSTickerOverview, error) {
	endpoint := fmt.Sprintf("%s/%s/overview", s.overviewURL, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create overview request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overview for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var overview TCBSTickerOverview
	if err := json.NewDecoder(resp.Body).Decode(&overview); err != nil {
		return nil, fmt.Errorf("failed to parse overview for %s: %w", ticker, err)
	}
	return &overview, nil
}
