package main

import (
	"context"
	"database/sql"
	"errors"
	"fuel-route-service/internal/adapters/cache"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/api"
	"fuel-route-service/internal/api/handlers"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/logger"
	"fuel-route-service/internal/ports"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		logger.L().Error("load config", "err", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if strings.TrimSpace(cfg.ORSAPIKey) == "" {
		log.Error("ORS_API_KEY is required")
		os.Exit(1)
	}

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Error("parse DB_DRIVER", "err", err)
		os.Exit(1)
	}

	conn, err := db.Connect(dialect, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Schema creation is idempotent, so local runs need no separate migration step.
	if err := repositories.InitSchema(conn, dialect); err != nil {
		log.Error("init schema", "err", err)
		os.Exit(1)
	}

	repo := repositories.NewSQLStationRepository(conn, dialect)
	if n, err := repo.CountStations(context.Background()); err == nil {
		if n == 0 {
			log.Warn("station catalog is empty; run dbtool --csv <file> to import it")
		} else {
			log.Info("station catalog loaded", "stations", n)
		}
	}

	geocodeCache, routeCache := newCaches(conn, dialect, cfg)

	provider, err := routing.NewORSProvider(routing.ORSConfig{
		APIKey:  cfg.ORSAPIKey,
		BaseURL: cfg.ORSBaseURL,
		Profile: cfg.ORSProfile,
	}, routeCache, geocodeCache)
	if err != nil {
		log.Error("create ORS provider", "err", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.Deps{
		Geocoder: provider,
		Routes:   provider,
		Stations: repo,
		DB:       conn,
		Defaults: handlers.VehicleDefaults{
			TankRangeMiles: cfg.TankRangeMiles,
			MilesPerGallon: cfg.MilesPerGallon,
			CorridorMiles:  cfg.CorridorMiles,
		},
		CORSOrigins: cfg.CORSOrigins,
	})

	// Timeouts are tuned for cold-cache planning (geocode + directions latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", "addr", srv.Addr, "db", string(dialect))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "err", err)
	}
	log.Info("server stopped")
}

// newCaches picks the geocode cache for the configured database and the route
// cache: Redis when REDIS_ADDR is set and reachable, the database otherwise.
func newCaches(conn *sql.DB, dialect db.Dialect, cfg *config.Config) (ports.GeocodeCache, ports.RouteCache) {
	var geocodeCache ports.GeocodeCache
	var routeCache ports.RouteCache

	if dialect == db.Postgres {
		geocodeCache = cache.NewSQLGeocodeCache(conn)
		routeCache = cache.NewSQLRouteCache(conn)
	} else {
		geocodeCache = cache.NewSqliteGeocodeCache(conn)
		routeCache = cache.NewSqliteRouteCache(conn)
	}

	if rdb := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.L().Warn("redis unavailable, using database route cache", "addr", cfg.RedisAddr, "err", err)
			_ = rdb.Close()
		} else {
			logger.L().Info("using redis route cache", "addr", cfg.RedisAddr, "ttl", cfg.RouteCacheTTL.String())
			routeCache = cache.NewRedisRouteCache(rdb, cfg.RouteCacheTTL)
		}
	}

	return geocodeCache, routeCache
}
