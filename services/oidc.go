package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"stockk_backend/config"
	"stockk_backend/schemas"
)

// ErrNotAuthenticated is returned when the identity provider rejects the
// presented token or the returned claims do not match the expected shape.
var ErrNotAuthenticated = errors.New("not authenticated")

// oidcMetadata is the subset of the discovery document we rely on
type oidcMetadata struct {
	Issuer           string `json:"issuer"`
	UserinfoEndpoint string `json:"userinfo_endpoint"`
}

// OIDCService resolves bearer tokens against an external identity
// provider. The provider is the sole source of truth per request; no
// validated token is cached locally.
type OIDCService struct {
	discoveryURL string
	httpClient   *http.Client
	logger       *zap.Logger

	mu       sync.Mutex
	metadata *oidcMetadata
}

// NewOIDCService creates an identity provider client
func NewOIDCService(cfg *config.Config, logger *zap.Logger) *OIDCService {
	return &OIDCService{
		discoveryURL: cfg.OIDCDiscoveryURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

// loadMetadata fetches the discovery document once and caches it for the
// process lifetime.
func (s *OIDCService) loadMetadata(ctx context.Context) (*oidcMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metadata != nil {
		return s.metadata, nil
	}
	if s.discoveryURL == "" {
		return nil, errors.New("OIDC_DISCOVERY_URL is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.discoveryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discovery document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery document request failed with status %d", resp.StatusCode)
	}

	var metadata oidcMetadata
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to parse discovery document: %w", err)
	}
	if metadata.UserinfoEndpoint == "" {
		return nil, errors.New("discovery document is missing userinfo_endpoint")
	}

	s.metadata = &metadata
	return s.metadata, nil
}

// FetchUserinfo exchanges an access token for the provider's identity
// claims. Any transport failure, non-200 status or malformed claim set
// resolves to ErrNotAuthenticated.
func (s *OIDCService) FetchUserinfo(ctx context.Context, accessToken string) (*schemas.OIDCUser, error) {
	metadata, err := s.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadata.UserinfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("userinfo request failed", zap.Error(err))
		return nil, ErrNotAuthenticated
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("identity provider rejected token",
			zap.Int("status", resp.StatusCode))
		return nil, ErrNotAuthenticated
	}

	var user schemas.OIDCUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, ErrNotAuthenticated
	}
	if !user.Valid() {
		return nil, ErrNotAuthenticated
	}
	return &user, nil
}
