package ports

import (
	"context"
	"fuel-route-service/internal/domain"

	"github.com/paulmach/orb"
)

// StationQuery narrows a catalog listing. Zero values mean "no filter".
type StationQuery struct {
	State  string
	Limit  int
	Offset int
}

// Port: a boundary for reading and writing the fuel station catalog.
type StationRepository interface {
	// Retrieve located stations whose coordinates fall inside bound.
	ListStationsInBounds(ctx context.Context, bound orb.Bound) ([]domain.Station, error)
	// Retrieve stations for browsing, ordered by OpisID.
	ListStations(ctx context.Context, q StationQuery) ([]domain.Station, error)
	// Return the set of OpisIDs already stored.
	ListOpisIDs(ctx context.Context) (map[int]struct{}, error)
	// Insert or replace stations keyed by OpisID.
	UpsertStations(ctx context.Context, stations []domain.Station) error
	// Update prices of existing stations; returns the number of rows changed.
	UpdatePrices(ctx context.Context, prices map[int]float64) (int, error)
	CountStations(ctx context.Context) (int, error)
}
