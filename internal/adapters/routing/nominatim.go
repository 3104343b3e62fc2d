package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultNominatimURL       = "https://nominatim.openstreetmap.org"
	DefaultNominatimUserAgent = "fuel-route-service/1.0"
)

type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	// RequestsPerSecond caps the request rate; the public instance allows 1.
	RequestsPerSecond float64
	Timeout           time.Duration
}

// NominatimGeocoder resolves addresses with an OpenStreetMap Nominatim
// instance. It is used for bulk catalog imports, so every call waits on a
// shared rate limiter.
type NominatimGeocoder struct {
	http    *upstream
	baseURL string
	limiter *rate.Limiter
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func NewNominatimGeocoder(cfg NominatimConfig) *NominatimGeocoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultNominatimUserAgent
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	header := http.Header{}
	header.Set("User-Agent", cfg.UserAgent)

	return &NominatimGeocoder{
		http:    newUpstream("nominatim", cfg.Timeout, header),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

func (n *NominatimGeocoder) Geocode(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return domain.Coordinates{}, errors.New("nominatim geocode: empty query")
	}

	endpoint := n.baseURL + "/search"

	resp, err := n.http.doWithRetry(ctx, func() (*http.Request, error) {
		if err := n.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := n.http.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("q", query)
		q.Set("format", "json")
		q.Set("limit", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w: %w", query, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: decode response: %w", query, err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: %w", query, domain.ErrLocationNotFound)
	}

	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: parse lon: %w", query, err)
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("nominatim geocode %q: parse lat: %w", query, err)
	}

	return domain.Coordinates{Lon: lon, Lat: lat}, nil
}
