package domain

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const MetersPerMile = 1609.344

// RouteGeometry is a validated route polyline with precomputed cumulative
// arc lengths. Distances are haversine great-circle miles.
type RouteGeometry struct {
	line       orb.LineString
	cumulative []float64
}

// NewRouteGeometry copies the polyline, drops consecutive duplicate vertices
// and computes the cumulative length at every vertex.
func NewRouteGeometry(ls orb.LineString) (*RouteGeometry, error) {
	line := make(orb.LineString, 0, len(ls))
	for _, p := range ls {
		if n := len(line); n > 0 && line[n-1].Equal(p) {
			continue
		}
		line = append(line, p)
	}

	if len(line) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 distinct vertices, got %d", ErrInvalidGeometry, len(line))
	}

	cumulative := make([]float64, len(line))
	for i := 1; i < len(line); i++ {
		cumulative[i] = cumulative[i-1] + geo.Distance(line[i-1], line[i])/MetersPerMile
	}

	if cumulative[len(cumulative)-1] <= 0 {
		return nil, fmt.Errorf("%w: total length must be positive", ErrInvalidGeometry)
	}

	return &RouteGeometry{line: line, cumulative: cumulative}, nil
}

// Line returns the normalized polyline. Callers must not modify it.
func (g *RouteGeometry) Line() orb.LineString { return g.line }

// TotalMiles is the arc length of the whole route.
func (g *RouteGeometry) TotalMiles() float64 { return g.cumulative[len(g.cumulative)-1] }

// MilesAt returns the cumulative length from the route start to vertex i.
func (g *RouteGeometry) MilesAt(i int) float64 { return g.cumulative[i] }

// Segments is the number of consecutive vertex pairs.
func (g *RouteGeometry) Segments() int { return len(g.line) - 1 }

func (g *RouteGeometry) Bound() orb.Bound { return g.line.Bound() }
