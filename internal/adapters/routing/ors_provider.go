package routing

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/logger"
	"fuel-route-service/internal/platform/metrics"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultORSBaseURL = "https://api.openrouteservice.org"
	DefaultORSProfile = "driving-car"
)

type ORSConfig struct {
	APIKey  string
	BaseURL string
	Profile string
	Timeout time.Duration
}

// ORSProvider implements Geocoder and RouteProvider using OpenRouteService.
//
// It coordinates:
//   - Query normalization
//   - Persistent geocode caching
//   - Route caching (Redis or SQL)
//   - External API calls with retry/backoff
//
// Either cache may be nil. The provider is safe for concurrent use.
type ORSProvider struct {
	http         *upstream
	baseURL      string
	profile      string
	routeCache   ports.RouteCache
	geocodeCache ports.GeocodeCache
}

func NewORSProvider(
	cfg ORSConfig,
	routeCache ports.RouteCache,
	geocodeCache ports.GeocodeCache,
) (*ORSProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultORSBaseURL
	}
	if cfg.Profile == "" {
		cfg.Profile = DefaultORSProfile
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	header := http.Header{}
	header.Set("Authorization", cfg.APIKey)

	provider := &ORSProvider{
		http:         newUpstream("ors", cfg.Timeout, header),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		profile:      cfg.Profile,
		routeCache:   routeCache,
		geocodeCache: geocodeCache,
	}

	return provider, nil
}

// Geocode resolves a free-text place, consulting the geocode cache first.
func (o *ORSProvider) Geocode(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(query)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: %w: empty query", domain.ErrInvalidParameters)
	}

	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("ORS get geocode cache: %w", err)
		}
		if c, ok := hits[norm]; ok {
			metrics.CacheLookupsTotal.WithLabelValues("geocode", "hit").Inc()
			return c, nil
		}
		metrics.CacheLookupsTotal.WithLabelValues("geocode", "miss").Inc()
	}

	c, err := o.geocode(ctx, norm)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: c}); err != nil {
			logger.L().Warn("geocode cache write failed", "req_id", obs.RequestID(ctx), "err", err)
		}
	}

	return c, nil
}

// GetRoute returns the driving route between two points, consulting the
// route cache first.
func (o *ORSProvider) GetRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, "ors.GetRoute")(&err)

	if !origin.Valid() || !destination.Valid() {
		return domain.Route{}, fmt.Errorf("get route: %w: coordinates out of range", domain.ErrInvalidParameters)
	}

	if o.routeCache != nil {
		r, ok, err := o.routeCache.GetRoute(ctx, origin, destination)
		if err != nil {
			// Read failures fall through to ORS.
			logger.L().Warn("route cache read failed", "req_id", obs.RequestID(ctx), "err", err)
		} else if ok {
			metrics.CacheLookupsTotal.WithLabelValues("route", "hit").Inc()
			return r, nil
		} else {
			metrics.CacheLookupsTotal.WithLabelValues("route", "miss").Inc()
		}
	}

	r, err := o.fetchDirections(ctx, origin, destination)
	if err != nil {
		return domain.Route{}, fmt.Errorf("fetching directions: %w", err)
	}

	if o.routeCache != nil {
		if err := o.routeCache.PutRoute(ctx, origin, destination, r); err != nil {
			logger.L().Warn("route cache write failed", "req_id", obs.RequestID(ctx), "err", err)
		}
	}

	return r, nil
}
