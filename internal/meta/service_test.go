package meta

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// failingSource always errors; used to exercise fallback paths.
type failingSource struct{}

func (failingSource) Fetch(context.Context) (*Snapshot, error) {
	return nil, errors.New("upstream down")
}

func (failingSource) Name() string { return "failing" }

// countingSource wraps a source and counts fetches.
type countingSource struct {
	mu      sync.Mutex
	fetches int
	inner   Source
}

func (c *countingSource) Fetch(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	c.fetches++
	c.mu.Unlock()
	return c.inner.Fetch(ctx)
}

func (c *countingSource) Name() string { return c.inner.Name() }

func (c *countingSource) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

func testSnapshot() Snapshot {
	return Snapshot{
		Breakdown: Breakdown{AggroDecks: 40, ControlDecks: 30, MidrangeDecks: 20, ComboDecks: 10},
	}
}

func TestServiceSnapshot(t *testing.T) {
	t.Run("first call fetches synchronously", func(t *testing.T) {
		source := &countingSource{inner: NewStaticSource(testSnapshot())}
		service := NewService(ServiceConfig{Source: source, TTL: time.Hour})

		snapshot, err := service.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if snapshot.Breakdown.AggroDecks != 40 {
			t.Errorf("AggroDecks = %.1f, want 40", snapshot.Breakdown.AggroDecks)
		}
		if source.count() != 1 {
			t.Errorf("fetches = %d, want 1", source.count())
		}
	})

	t.Run("fresh snapshot is served from cache", func(t *testing.T) {
		source := &countingSource{inner: NewStaticSource(testSnapshot())}
		service := NewService(ServiceConfig{Source: source, TTL: time.Hour})

		for i := 0; i < 5; i++ {
			if _, err := service.Snapshot(context.Background()); err != nil {
				t.Fatalf("call %d: %v", i, err)
			}
		}
		if source.count() != 1 {
			t.Errorf("fetches = %d, want 1 while fresh", source.count())
		}
	})

	t.Run("cold cache with a failing source errors", func(t *testing.T) {
		service := NewService(ServiceConfig{Source: failingSource{}, TTL: time.Hour})
		_, err := service.Snapshot(context.Background())
		if !errors.Is(err, ErrSourceUnavailable) {
			t.Errorf("err = %v, want ErrSourceUnavailable", err)
		}
	})

	t.Run("failed refresh serves the last known good snapshot", func(t *testing.T) {
		service := NewService(ServiceConfig{Source: failingSource{}, TTL: time.Hour})
		service.Prime(&Snapshot{Breakdown: testSnapshot().Breakdown, FetchedAt: time.Now()})

		snapshot, err := service.Refresh(context.Background())
		if err != nil {
			t.Fatalf("Refresh: %v", err)
		}
		if snapshot == nil {
			t.Fatal("expected the primed snapshot")
		}
	})
}

func TestServicePrime(t *testing.T) {
	t.Run("seeds an empty cache", func(t *testing.T) {
		source := &countingSource{inner: NewStaticSource(testSnapshot())}
		service := NewService(ServiceConfig{Source: source, TTL: time.Hour})

		service.Prime(&Snapshot{Breakdown: Breakdown{AggroDecks: 100}, FetchedAt: time.Now()})

		snapshot, err := service.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if snapshot.Breakdown.AggroDecks != 100 {
			t.Errorf("AggroDecks = %.1f, want the primed snapshot", snapshot.Breakdown.AggroDecks)
		}
		if source.count() != 0 {
			t.Errorf("fetches = %d, want 0 after priming", source.count())
		}
	})

	t.Run("does not replace an existing snapshot", func(t *testing.T) {
		service := NewService(ServiceConfig{Source: NewStaticSource(testSnapshot()), TTL: time.Hour})
		first, err := service.Snapshot(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		service.Prime(&Snapshot{Breakdown: Breakdown{ComboDecks: 100}, FetchedAt: time.Now()})

		again, err := service.Snapshot(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Error("expected Prime to leave the fetched snapshot in place")
		}
	})

	t.Run("nil snapshot is ignored", func(t *testing.T) {
		service := NewService(ServiceConfig{Source: failingSource{}})
		service.Prime(nil)
		if _, err := service.Snapshot(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
			t.Errorf("err = %v, want ErrSourceUnavailable after nil prime", err)
		}
	})
}

func TestHTTPSource(t *testing.T) {
	t.Run("decodes and normalizes a snapshot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("User-Agent"); got != "deckforge/1.0" {
				t.Errorf("User-Agent = %q", got)
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{
				"metaBreakdown": {"aggroDecks": 30, "controlDecks": 10},
				"popularCards": [
					{"card": {"id": "x1", "name": "Field Staple"}, "usageRate": 20, "winRate": 54},
					{"card": {"id": "x2", "name": "Top Pick"}, "usageRate": 61, "winRate": 56}
				],
				"trendingCards": [
					{"card": {"id": "x3", "name": "Riser"}, "changePercent": 12.5, "periodDays": 7}
				]
			}`))
		}))
		defer server.Close()

		config := DefaultHTTPSourceConfig(server.URL)
		config.RateLimitDelay = time.Millisecond
		source := NewHTTPSource(config)

		snapshot, err := source.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}

		if sum := snapshot.Breakdown.Sum(); sum != 100 {
			t.Errorf("breakdown sum = %.2f, want 100", sum)
		}
		if snapshot.PopularCards[0].Card.Name != "Top Pick" {
			t.Errorf("first popular card = %s, want usage-sorted order", snapshot.PopularCards[0].Card.Name)
		}
		if snapshot.TrendingCards[0].Direction() != TrendUp {
			t.Errorf("Direction = %s, want up", snapshot.TrendingCards[0].Direction())
		}
		if snapshot.Source != "http" {
			t.Errorf("Source = %q, want http", snapshot.Source)
		}
		if snapshot.FetchedAt.IsZero() {
			t.Error("expected FetchedAt to be stamped")
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		config := DefaultHTTPSourceConfig(server.URL)
		config.RateLimitDelay = time.Millisecond
		if _, err := NewHTTPSource(config).Fetch(context.Background()); err == nil {
			t.Error("expected an error for 503")
		}
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		config := DefaultHTTPSourceConfig(server.URL)
		config.RateLimitDelay = time.Millisecond
		if _, err := NewHTTPSource(config).Fetch(context.Background()); err == nil {
			t.Error("expected a decode error")
		}
	})
}

func TestStaticSource(t *testing.T) {
	source := NewStaticSource(testSnapshot())
	snapshot, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if snapshot.Source != "static" {
		t.Errorf("Source = %q, want static", snapshot.Source)
	}
	if snapshot.PopularCards == nil {
		t.Error("expected normalized empty slices")
	}
}
