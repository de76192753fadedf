package distance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"driver-log-service/internal/ports"
)

type memDistanceCache struct {
	mu sync.Mutex
	m  map[string]ports.DistanceResult
}

func (c *memDistanceCache) Get(_ context.Context, origin, dest string) (ports.DistanceResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.m[origin+"|"+dest]
	return r, ok, nil
}

func (c *memDistanceCache) Put(_ context.Context, origin, dest string, r ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string]ports.DistanceResult{}
	}
	c.m[origin+"|"+dest] = r
	return nil
}

func newTestProvider(t *testing.T, handler http.Handler) (*ORSRouteProvider, *memDistanceCache) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cache := &memDistanceCache{}
	p, err := NewORSRouteProvider("test-key", cache, nil)
	if err != nil {
		t.Fatalf("NewORSRouteProvider: %v", err)
	}
	p.baseURL = srv.URL
	return p, cache
}

func orsHandler(t *testing.T, geocodeCalls, routeCalls *int) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		*geocodeCalls++
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("authorization header = %q", got)
		}
		w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-112.07,33.45]}}]}`))
	})
	mux.HandleFunc("/v2/directions/driving-hgv", func(w http.ResponseWriter, r *http.Request) {
		*routeCalls++
		w.Write([]byte(`{"routes":[{"summary":{"distance":177028.4,"duration":6480.2}}]}`))
	})
	return mux
}

func TestGetDistanceFetchesAndCaches(t *testing.T) {
	var geocodeCalls, routeCalls int
	p, cache := newTestProvider(t, orsHandler(t, &geocodeCalls, &routeCalls))

	got, err := p.GetDistance(context.Background(), "Phoenix,  AZ", "Tucson, AZ")
	if err != nil {
		t.Fatalf("GetDistance: %v", err)
	}
	if got.DistanceMeters != 177028 {
		t.Errorf("meters = %d, want 177028 (rounded)", got.DistanceMeters)
	}
	if got.DurationSeconds != 6480 {
		t.Errorf("seconds = %d, want 6480 (rounded)", got.DurationSeconds)
	}
	if geocodeCalls != 2 || routeCalls != 1 {
		t.Errorf("calls = %d geocode, %d route; want 2, 1", geocodeCalls, routeCalls)
	}

	// Whitespace is collapsed before the key is used.
	if _, ok, _ := cache.Get(context.Background(), "Phoenix, AZ", "Tucson, AZ"); !ok {
		t.Error("result not written to distance cache under normalized key")
	}

	// Second lookup is served from cache.
	if _, err := p.GetDistance(context.Background(), "Phoenix, AZ", "Tucson, AZ"); err != nil {
		t.Fatalf("GetDistance cached: %v", err)
	}
	if routeCalls != 1 {
		t.Errorf("route calls after cache hit = %d, want 1", routeCalls)
	}
}

func TestGetDistanceRetriesTransientFailures(t *testing.T) {
	var attempts int
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[{"geometry":{"coordinates":[-112.07,33.45]}}]}`))
	})
	mux.HandleFunc("/v2/directions/driving-hgv", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"routes":[{"summary":{"distance":1000,"duration":60}}]}`))
	})

	p, _ := newTestProvider(t, mux)
	got, err := p.GetDistance(context.Background(), "A", "B")
	if err != nil {
		t.Fatalf("GetDistance: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if got.DistanceMeters != 1000 {
		t.Errorf("meters = %d, want 1000", got.DistanceMeters)
	}
}

func TestGetDistanceDoesNotRetryClientErrors(t *testing.T) {
	var attempts int
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	p, _ := newTestProvider(t, mux)
	_, err := p.GetDistance(context.Background(), "A", "B")
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 401)", attempts)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error does not surface status: %v", err)
	}
}

func TestGetDistanceSameOriginAndDestination(t *testing.T) {
	p, _ := newTestProvider(t, http.NewServeMux())
	got, err := p.GetDistance(context.Background(), "Phoenix, AZ", "Phoenix,   AZ")
	if err != nil {
		t.Fatalf("GetDistance: %v", err)
	}
	if got != (ports.DistanceResult{}) {
		t.Errorf("same-location distance = %+v, want zero", got)
	}
}

func TestGetDistanceRejectsEmptyEndpoints(t *testing.T) {
	p, _ := newTestProvider(t, http.NewServeMux())
	if _, err := p.GetDistance(context.Background(), " ", "B"); err == nil {
		t.Error("expected error for empty origin")
	}
	if _, err := p.GetDistance(context.Background(), "A", ""); err == nil {
		t.Error("expected error for empty destination")
	}
}
