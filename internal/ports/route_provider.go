package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Contract for retrieving a driving route between two points.
type RouteProvider interface {
	// Return the route geometry with its distance and duration.
	GetRoute(ctx context.Context, origin domain.Coordinates, destination domain.Coordinates) (domain.Route, error)
}
