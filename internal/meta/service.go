package meta

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrSourceUnavailable is returned when no snapshot can be produced: the
// source failed and no last-known-good snapshot exists. Callers are expected
// to retry or show a retry affordance; the service does not retry itself.
var ErrSourceUnavailable = errors.New("meta source unavailable")

// ServiceConfig configures the snapshot service.
type ServiceConfig struct {
	Source Source
	// TTL is how long a fetched snapshot stays fresh.
	TTL    time.Duration
	Logger *slog.Logger
}

// Service caches meta snapshots with a bounded TTL. Reads never block on a
// refresh: once a snapshot exists, callers always receive the last known
// good one while a background refresh is in flight.
type Service struct {
	source Source
	ttl    time.Duration
	logger *slog.Logger

	mu         sync.RWMutex
	snapshot   *Snapshot
	refreshing bool
}

// NewService creates a snapshot service. A nil source falls back to an empty
// static source; zero TTL defaults to 30 minutes.
func NewService(config ServiceConfig) *Service {
	source := config.Source
	if source == nil {
		source = NewStaticSource(Snapshot{})
	}
	ttl := config.TTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, ttl: ttl, logger: logger}
}

// Snapshot returns the current meta snapshot. The first call fetches
// synchronously; later calls serve the cached snapshot and refresh in the
// background once it goes stale.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	cached := s.snapshot
	s.mu.RUnlock()

	if cached != nil {
		if time.Since(cached.FetchedAt) >= s.ttl {
			s.refreshAsync()
		}
		return cached, nil
	}

	return s.fetchAndStore(ctx)
}

// Refresh forces a synchronous refresh, replacing the cached snapshot.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	return s.fetchAndStore(ctx)
}

// Prime seeds the cache with a previously persisted snapshot so a fresh
// process can serve meta data before its first fetch completes.
func (s *Service) Prime(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	snapshot.normalize()
	s.mu.Lock()
	if s.snapshot == nil {
		s.snapshot = snapshot
	}
	s.mu.Unlock()
}

func (s *Service) fetchAndStore(ctx context.Context) (*Snapshot, error) {
	snapshot, err := s.source.Fetch(ctx)
	if err != nil {
		s.mu.RLock()
		cached := s.snapshot
		s.mu.RUnlock()
		if cached != nil {
			s.logger.Warn("meta refresh failed, serving cached snapshot",
				"source", s.source.Name(), "error", err)
			return cached, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	return snapshot, nil
}

// refreshAsync starts at most one background refresh at a time. A failed
// refresh keeps the stale snapshot in place.
func (s *Service) refreshAsync() {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		return
	}
	s.refreshing = true
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		snapshot, err := s.source.Fetch(ctx)

		s.mu.Lock()
		s.refreshing = false
		if err == nil {
			s.snapshot = snapshot
		}
		s.mu.Unlock()

		if err != nil {
			s.logger.Warn("background meta refresh failed",
				"source", s.source.Name(), "error", err)
		}
	}()
}
