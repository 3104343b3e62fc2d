package ports

import (
	"context"
	"fuel-route-service/internal/domain"
)

// Contract for resolving a free-text place name to coordinates.
type Geocoder interface {
	// Return the best match for query, or an error wrapping
	// domain.ErrLocationNotFound when nothing matched.
	Geocode(ctx context.Context, query string) (domain.Coordinates, error)
}
