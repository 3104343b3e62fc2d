package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
)

// SQLRouteCache is a Postgres-backed cache of ORS routes keyed by endpoints.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

func (s *SQLRouteCache) GetRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.GetRoute")(&err)

	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}

	o, d := routeKey(origin, destination)

	q := `
	SELECT geometry, distance_meters, duration_seconds
    FROM route_cache
    WHERE origin_key = $1
        AND destination_key = $2;
	`

	var geometry string
	var r domain.Route
	err = s.DB.QueryRowContext(ctx, q, o, d).Scan(&geometry, &r.DistanceMeters, &r.DurationSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	r.Geometry, err = decodeGeometry([]byte(geometry))
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: %w", err)
	}

	return r, true, nil
}

func (s *SQLRouteCache) PutRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	route domain.Route,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	geometry, err := encodeGeometry(route.Geometry)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	o, d := routeKey(origin, destination)

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (origin_key, destination_key, geometry, distance_meters, duration_seconds)
    VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (origin_key, destination_key) DO UPDATE
	SET geometry = EXCLUDED.geometry,
		distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds;
	`, o, d, string(geometry), route.DistanceMeters, route.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", o, d, err)
	}

	return nil
}
