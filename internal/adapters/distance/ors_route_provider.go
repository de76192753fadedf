package distance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"driver-log-service/internal/domain"
	"driver-log-service/internal/platform/obs"
	"driver-log-service/internal/ports"
)

// DistanceCache is the persistent leg-distance cache the provider consults
// before calling the routing API.
type DistanceCache interface {
	Get(ctx context.Context, origin, destination string) (ports.DistanceResult, bool, error)
	Put(ctx context.Context, origin, destination string, r ports.DistanceResult) error
}

// GeocodeCache is the persistent address->coordinates cache.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (domain.Coordinates, bool, error)
	Put(ctx context.Context, address string, c domain.Coordinates) error
}

// ORSRouteProvider implements DistanceProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Persistent leg-distance caching
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSRouteProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	profile       string
	distanceCache DistanceCache
	geocodeCache  GeocodeCache
}

func NewORSRouteProvider(apiKey string, distanceCache DistanceCache, geocodeCache GeocodeCache) (*ORSRouteProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSRouteProvider{
		session:       &http.Client{Timeout: 10 * time.Second},
		apiKey:        apiKey,
		baseURL:       "https://api.openrouteservice.org",
		profile:       "driving-hgv",
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSRouteProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Return travel distance and duration for one leg, consulting the
// persistent caches before the external API.
func (o *ORSRouteProvider) GetDistance(ctx context.Context, origin, destination string) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistance")(&err)

	normOrigin := o.normalize(origin)
	normDestination := o.normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: origin and destination must be non-empty")
	}

	if normOrigin == normDestination {
		return ports.DistanceResult{}, nil
	}

	if o.distanceCache != nil {
		cached, ok, err := o.distanceCache.Get(ctx, normOrigin, normDestination)
		if err != nil {
			return ports.DistanceResult{}, fmt.Errorf("ORS get distance cache: %w", err)
		}
		if ok {
			return cached, nil
		}
	}

	originCoord, err := o.resolve(ctx, normOrigin)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("resolve origin %q: %w", normOrigin, err)
	}
	destCoord, err := o.resolve(ctx, normDestination)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("resolve destination %q: %w", normDestination, err)
	}

	result, err := o.fetchRoute(ctx, originCoord, destCoord)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("fetch route %q -> %q: %w", normOrigin, normDestination, err)
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.Put(ctx, normOrigin, normDestination, result); err != nil {
			log.Printf("distance cache write failed: %v", err)
		}
	}

	return result, nil
}

// resolve turns an address into coordinates via the cache, falling back to
// the geocoding API.
func (o *ORSRouteProvider) resolve(ctx context.Context, address string) (domain.Coordinates, error) {
	if o.geocodeCache != nil {
		coord, ok, err := o.geocodeCache.Get(ctx, address)
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("ORS get geocode cache: %w", err)
		}
		if ok {
			return coord, nil
		}
	}

	coord, err := o.geocode(ctx, address)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.Put(ctx, address, coord); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return coord, nil
}
