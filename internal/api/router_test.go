package api

import (
	"context"
	"encoding/json"
	"errors"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/api/handlers"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/db"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) PingContext(ctx context.Context) error { return errors.New("db down") }

func newTestServer(t *testing.T) (http.Handler, *repositories.SQLStationRepository) {
	t.Helper()

	conn, err := db.OpenSQLite(t.TempDir() + "/api.db")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(conn, db.SQLite))

	repo := repositories.NewSQLStationRepository(conn, db.SQLite)
	require.NoError(t, repo.UpsertStations(context.Background(), []domain.Station{
		{OpisID: 1, Name: "Midway Fuel", City: "Mid", State: "TX", Price: 2.50, Location: &domain.Coordinates{Lon: 7, Lat: 0.01}},
		{OpisID: 2, Name: "Early Fuel", City: "Early", State: "OK", Price: 3.10, Location: &domain.Coordinates{Lon: 3, Lat: -0.01}},
	}))

	provider := routing.NewMockProvider(map[string]domain.Coordinates{
		"West Point": {Lon: 0, Lat: 0},
		"East Point": {Lon: 14, Lat: 0},
		"Far East":   {Lon: 40, Lat: 0},
	})

	h := NewRouter(Deps{
		Geocoder: provider,
		Routes:   provider,
		Stations: repo,
		DB:       conn,
		Defaults: handlers.VehicleDefaults{TankRangeMiles: 500, MilesPerGallon: 10, CorridorMiles: 10},
	})
	return h, repo
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRoutePlansFuelStops(t *testing.T) {
	h, _ := newTestServer(t)

	rec := get(t, h, "/route?start=West+Point&finish=East+Point")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var res dto.RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.InDelta(t, 968.4, res.TotalMiles, 1.0)
	require.Len(t, res.Stops, 1)
	assert.Equal(t, 1, res.Stops[0].OpisID)
	assert.Equal(t, 2.5, res.Stops[0].Price)
	assert.Greater(t, res.TotalFuelCost, 0.0)

	// Route line, start, finish and one stop marker.
	require.NotNil(t, res.RouteMap)
	require.Len(t, res.RouteMap.Features, 4)
	assert.Equal(t, "LineString", res.RouteMap.Features[0].Geometry.GeoJSONType())
	assert.Equal(t, "fuel_stop", res.RouteMap.Features[3].Properties["kind"])
}

func TestRouteAcceptsTrailingSlashAndOverrides(t *testing.T) {
	h, _ := newTestServer(t)

	rec := get(t, h, "/route/?start=West+Point&finish=East+Point&tank_range=1000&mpg=8")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.Stops)
	assert.Equal(t, 0.0, res.TotalFuelCost)
	assert.Equal(t, 8.0, res.MilesPerGallon)
}

func TestRouteRejectsBadInput(t *testing.T) {
	h, _ := newTestServer(t)

	cases := map[string]string{
		"/route?start=West+Point":                                 "Please provide start and finish locations",
		"/route?start=West+Point&finish=East+Point&mpg=abc":       "mpg must be a number",
		"/route?start=West+Point&finish=East+Point&tank_range=-5": "tank_range must be greater than 0",
		"/route?start=West+Point&finish=East+Point&corridor=500":  "corridor must be at most 100",
	}

	for target, want := range cases {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, want, errorMessage(t, rec), target)
	}
}

func TestRouteErrorMapping(t *testing.T) {
	h, _ := newTestServer(t)

	rec := get(t, h, "/route?start=West+Point&finish=Atlantis")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "Could not geocode")

	// The 40 degree route has stations only in its first 500 miles.
	rec = get(t, h, "/route?start=West+Point&finish=Far+East")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "no station within")

	rec = get(t, h, "/route?start=West+Point&finish=Far+East&corridor=0")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "no fuel stations")

	rec = get(t, h, "/route?start=West+Point&finish=west+point")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestStationsList(t *testing.T) {
	h, _ := newTestServer(t)

	rec := get(t, h, "/stations?state=tx")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListStationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.CatalogSize)
	require.Len(t, res.Stations, 1)
	assert.Equal(t, "Midway Fuel", res.Stations[0].Name)
	require.NotNil(t, res.Stations[0].Lon)
	assert.Equal(t, 7.0, *res.Stations[0].Lon)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/stations?limit=0").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/stations?state=Texas").Code)
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)

	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"connected"`)

	down := NewRouter(Deps{DB: failingPinger{}})
	rec = get(t, down, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestMethodNotAllowedAndMetrics(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/route", strings.NewReader("{}")))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	get(t, h, "/health")
	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fuelroute_http_requests_total")
}
