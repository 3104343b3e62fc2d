package routing

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// MockProvider is an in-memory Geocoder and RouteProvider for tests and
// offline runs. Unknown routes are drawn as a straight line.
type MockProvider struct {
	places map[string]domain.Coordinates
	routes map[string]domain.Route
}

func NewMockProvider(places map[string]domain.Coordinates) *MockProvider {
	m := make(map[string]domain.Coordinates, len(places))
	for k, v := range places {
		m[normalize(k)] = v
	}
	return &MockProvider{places: m, routes: map[string]domain.Route{}}
}

// AddRoute registers the route returned for origin -> destination.
func (p *MockProvider) AddRoute(origin, destination domain.Coordinates, r domain.Route) {
	p.routes[origin.Key()+"|"+destination.Key()] = r
}

func (p *MockProvider) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	c, ok := p.places[normalize(query)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", query, domain.ErrLocationNotFound)
	}
	return c, nil
}

func (p *MockProvider) GetRoute(ctx context.Context, origin, destination domain.Coordinates) (domain.Route, error) {
	if r, ok := p.routes[origin.Key()+"|"+destination.Key()]; ok {
		return r, nil
	}

	ls := orb.LineString{origin.Point(), destination.Point()}
	return domain.Route{Geometry: ls, DistanceMeters: geo.Length(ls)}, nil
}
