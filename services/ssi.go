package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"stockk_backend/config"
	"stockk_backend/schemas"
)

// UpstreamError carries a non-200 reply from a proxied market-data API so
// that controllers can forward the original status code.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

// SSIOrganization is one row from the SSI master organization list
type SSIOrganization struct {
	Ticker         string `json:"ticker"`
	OrganName      string `json:"organName"`
	OrganShortName string `json:"organShortName"`
	ComGroupCode   string `json:"comGroupCode"`
}

type ssiOrganizationResponse struct {
	Items []SSIOrganization `json:"items"`
}

// SSIService proxies the SSI iboard chart API and the fiin master data API
type SSIService struct {
	historyURL      string
	organizationURL string
	httpClient      *http.Client
	logger          *zap.Logger
}

// NewSSIService creates an SSI market-data client
func NewSSIService(cfg *config.Config, logger *zap.Logger) *SSIService {
	return &SSIService{
		historyURL:      cfg.SSIHistoryURL,
		organizationURL: cfg.SSIOrganizationURL,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		logger:          logger,
	}
}

// browserHeaders mimics a desktop browser. SSI rejects requests with a
// default Go user agent.
func browserHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "vi,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36")
	req.Header.Set("sec-ch-ua", `"Not?A_Brand";v="8", "Chromium";v="108", "Google Chrome";v="108"`)
	req.Header.Set("sec-ch-ua-mobile", "?0")
	req.Header.Set("sec-ch-ua-platform", `"Linux"`)
}

// History fetches OHLCV bars for a symbol from the SSI chart API and
// returns them in the tradingview history shape.
func (s *SSIService) History(ctx context.Context, symbol, resolution string, from, to int64) (*schemas.TVHistory, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", resolution)
	params.Set("from", strconv.FormatInt(from, 10))
	params.Set("to", strconv.FormatInt(to, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.historyURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create history request: %w", err)
	}
	browserHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read history response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var history schemas.TVHistory
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("failed to parse history response: %w", err)
	}
	return &history, nil
}

// ListOrganizations fetches the full listed-company master table
func (s *SSIService) ListOrganizations(ctx context.Context) ([]SSIOrganization, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.organizationURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create organization request: %w", err)
	}
	browserHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organization list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var organizations ssiOrganizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&organizations); err != nil {
		return nil, fmt.Errorf("failed to parse organization list: %w", err)
	}
	s.logger.Debug("fetched SSI organization list", zap.Int("count", len(organizations.Items)))
	return organizations.Items, nil
}
