package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
)

// SQLite backed cache of ORS routes. Geometry is stored as a GeoJSON
// LineString.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

func (s *SqliteRouteCache) GetRoute(
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
	SELECT
        geometry,
        distance_meters,
        duration_seconds
    FROM route_cache
    WHERE origin_key = ?
        AND destination_key = ?;
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

func (s *SqliteRouteCache) PutRoute(
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
	INSERT OR REPLACE INTO route_cache (
        origin_key,
        destination_key,
        geometry,
        distance_meters,
        duration_seconds
    )
    VALUES (?, ?, ?, ?, ?);
	`, o, d, string(geometry), route.DistanceMeters, route.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s: %w", o, d, err)
	}

	return nil
}
