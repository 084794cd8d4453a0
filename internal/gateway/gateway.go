// Package gateway implements the transport boundary to the remote
// AgriScheme backend. It performs single-attempt requests only — retry and
// fallback decisions belong to the matcher.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"agrischeme-api-go/internal/config"
	"agrischeme-api-go/internal/models"
)

// districtPlaceholder is sent for the district field the client does not
// collect yet.
const districtPlaceholder = "All"

// TransportError is returned when a backend call cannot complete: network
// failure, non-success status, or a structurally invalid response body.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway: %s: backend returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Gateway is a stateless client for the scheme backend. The base URL is
// the only mutable field — it can be swapped at runtime via Reconfigure to
// point the same process at a different backend deployment.
type Gateway struct {
	mu      sync.RWMutex
	baseURL string

	client        *http.Client
	healthTimeout time.Duration
	logger        *zap.Logger
}

// NewGateway creates a gateway from configuration.
func NewGateway(cfg *config.Config, logger *zap.Logger) (*Gateway, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := url.ParseRequestURI(cfg.BackendBaseURL); err != nil {
		return nil, fmt.Errorf("invalid backend base URL %q: %w", cfg.BackendBaseURL, err)
	}
	return &Gateway{
		baseURL: cfg.BackendBaseURL,
		client: &http.Client{
			Timeout: cfg.BackendTimeout,
		},
		healthTimeout: cfg.HealthTimeout,
		logger:        logger,
	}, nil
}

// Reconfigure points the gateway at a different backend base URL.
// Single-writer: callers are expected to reconfigure from one goroutine
// (an admin path), while requests may read concurrently.
func (g *Gateway) Reconfigure(baseURL string) error {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return fmt.Errorf("invalid backend base URL %q: %w", baseURL, err)
	}
	g.mu.Lock()
	g.baseURL = baseURL
	g.mu.Unlock()
	g.logger.Info("gateway reconfigured", zap.String("base_url", baseURL))
	return nil
}

// BaseURL returns the currently configured backend address.
func (g *Gateway) BaseURL() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.baseURL
}

type eligibleRequest struct {
	State    string  `json:"state"`
	Crop     string  `json:"crop"`
	LandSize float64 `json:"land_size"`
	Season   string  `json:"season"`
	District string  `json:"district"`
}

type eligibleResponse struct {
	Schemes []models.SchemeRecord `json:"schemes"`
}

// FetchEligibleSchemes posts the farmer input to the backend's eligibility
// endpoint and decodes the matched schemes. Individual malformed scheme
// fields take their defaults during decoding; only a top-level failure is
// reported, always as *TransportError.
func (g *Gateway) FetchEligibleSchemes(ctx context.Context, input models.FarmerInput) ([]models.SchemeRecord, error) {
	payload := eligibleRequest{
		State:    input.State,
		Crop:     input.Crop,
		LandSize: input.LandSize,
		Season:   input.Season,
		District: districtPlaceholder,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Op: "fetch_eligible", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint("/api/getEligibleSchemes"), bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "fetch_eligible", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "fetch_eligible", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: "fetch_eligible", StatusCode: resp.StatusCode}
	}

	var decoded eligibleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &TransportError{Op: "fetch_eligible", Err: fmt.Errorf("invalid response body: %w", err)}
	}

	if decoded.Schemes == nil {
		decoded.Schemes = []models.SchemeRecord{}
	}
	return decoded.Schemes, nil
}

// ListResult is the backend's paginated scheme listing.
type ListResult struct {
	Schemes []models.SchemeRecord `json:"schemes"`
	Count   int                   `json:"count"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
}

// ListSchemes fetches the full scheme catalogue, optionally filtered by
// scheme type, with the backend's pagination.
func (g *Gateway) ListSchemes(ctx context.Context, schemeType string, page, limit int) (*ListResult, error) {
	u, err := url.Parse(g.endpoint("/api/schemes"))
	if err != nil {
		return nil, &TransportError{Op: "list_schemes", Err: err}
	}
	q := u.Query()
	if schemeType != "" {
		q.Set("type", schemeType)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &TransportError{Op: "list_schemes", Err: err}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "list_schemes", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: "list_schemes", StatusCode: resp.StatusCode}
	}

	var decoded ListResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &TransportError{Op: "list_schemes", Err: fmt.Errorf("invalid response body: %w", err)}
	}
	if decoded.Schemes == nil {
		decoded.Schemes = []models.SchemeRecord{}
	}
	return &decoded, nil
}

// CheckHealth probes the backend root within a short timeout. Every
// failure mode collapses to false — this exists only so callers can show
// connectivity status.
func (g *Gateway) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, g.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint("/api/"), nil)
	if err != nil {
		return false
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("backend health probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func (g *Gateway) endpoint(path string) string {
	g.mu.RLock()
	base := g.baseURL
	g.mu.RUnlock()
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + path
}
