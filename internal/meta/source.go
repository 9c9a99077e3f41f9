package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Source supplies meta-game snapshots. How the data is produced upstream is
// out of scope; a source only has to return the snapshot shape.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
	Name() string
}

// HTTPSourceConfig configures the HTTP snapshot source.
type HTTPSourceConfig struct {
	// URL is the endpoint returning a JSON snapshot.
	URL string

	// RequestTimeout is the HTTP request timeout.
	RequestTimeout time.Duration

	// RateLimitDelay is the minimum spacing between requests.
	RateLimitDelay time.Duration

	// UserAgent identifies the client to the upstream service.
	UserAgent string
}

// DefaultHTTPSourceConfig returns default configuration for a given URL.
func DefaultHTTPSourceConfig(url string) HTTPSourceConfig {
	return HTTPSourceConfig{
		URL:            url,
		RequestTimeout: 30 * time.Second,
		RateLimitDelay: time.Second,
		UserAgent:      "deckforge/1.0",
	}
}

// HTTPSource fetches snapshots from a pre-computed aggregate endpoint,
// rate-limited so refresh loops cannot hammer the upstream service.
type HTTPSource struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	config      HTTPSourceConfig
}

// NewHTTPSource creates a rate-limited HTTP snapshot source.
func NewHTTPSource(config HTTPSourceConfig) *HTTPSource {
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.RateLimitDelay == 0 {
		config.RateLimitDelay = time.Second
	}
	return &HTTPSource{
		httpClient:  &http.Client{Timeout: config.RequestTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(config.RateLimitDelay), 1),
		config:      config,
	}
}

// Fetch retrieves and decodes a snapshot from the configured endpoint.
func (s *HTTPSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	snapshot.FetchedAt = time.Now()
	snapshot.Source = s.Name()
	snapshot.normalize()
	return &snapshot, nil
}

// Name returns the source identifier.
func (s *HTTPSource) Name() string {
	return "http"
}

// StaticSource serves a fixed snapshot; used when no external endpoint is
// configured and as a deterministic source in tests.
type StaticSource struct {
	snapshot Snapshot
}

// NewStaticSource creates a source that always returns the given snapshot.
func NewStaticSource(snapshot Snapshot) *StaticSource {
	return &StaticSource{snapshot: snapshot}
}

// Fetch returns a copy of the fixed snapshot.
func (s *StaticSource) Fetch(ctx context.Context) (*Snapshot, error) {
	snapshot := s.snapshot
	snapshot.FetchedAt = time.Now()
	snapshot.Source = s.Name()
	snapshot.normalize()
	return &snapshot, nil
}

// Name returns the source identifier.
func (s *StaticSource) Name() string {
	return "static"
}
