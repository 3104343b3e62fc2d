package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// GeocodeCache maps normalized place strings to coordinates.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// RouteCache stores routes keyed by their rounded endpoints.
type RouteCache interface {
	GetRoute(ctx context.Context, origin domain.Coordinates, destination domain.Coordinates) (domain.Route, bool, error)
	PutRoute(ctx context.Context, origin domain.Coordinates, destination domain.Coordinates, route domain.Route) error
}
