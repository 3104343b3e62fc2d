package api

import (
	"fuel-route-service/internal/api/handlers"
	"fuel-route-service/internal/platform/metrics"
	"fuel-route-service/internal/ports"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the ports and settings the HTTP layer needs.
type Deps struct {
	Geocoder    ports.Geocoder
	Routes      ports.RouteProvider
	Stations    ports.StationRepository
	DB          handlers.Pinger
	Defaults    handlers.VehicleDefaults
	CORSOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	health := &handlers.HealthHandler{DB: d.DB}
	stations := &handlers.StationHandler{Repo: d.Stations}
	route := handlers.NewRouteHandler(d.Geocoder, d.Routes, d.Stations, d.Defaults)

	r.Get("/health", health.Health)
	r.Get("/stations", stations.List)
	r.Get("/route", route.Plan)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
