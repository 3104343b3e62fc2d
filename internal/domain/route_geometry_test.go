package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestNewRouteGeometryDropsDuplicateVertices(t *testing.T) {
	ls := orb.LineString{{0, 0}, {0, 0}, {1, 0}, {1, 0}, {2, 0}}

	g, err := NewRouteGeometry(ls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Segments() != 2 {
		t.Fatalf("segments = %d, want 2", g.Segments())
	}

	// One degree of longitude on the equator with orb's earth radius.
	oneDegree := orb.EarthRadius * math.Pi / 180 / MetersPerMile
	if math.Abs(g.TotalMiles()-2*oneDegree) > 1e-6 {
		t.Fatalf("total miles = %f, want %f", g.TotalMiles(), 2*oneDegree)
	}
	if math.Abs(g.MilesAt(1)-oneDegree) > 1e-6 {
		t.Fatalf("miles at vertex 1 = %f, want %f", g.MilesAt(1), oneDegree)
	}
}

func TestNewRouteGeometryRejectsDegenerateInput(t *testing.T) {
	cases := map[string]orb.LineString{
		"empty":        nil,
		"single point": {{1, 1}},
		"all repeated": {{1, 1}, {1, 1}, {1, 1}},
	}

	for name, ls := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRouteGeometry(ls)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Fatalf("err = %v, want ErrInvalidGeometry", err)
			}
		})
	}
}

func TestErrNoCandidatesIsInfeasible(t *testing.T) {
	if !errors.Is(ErrNoCandidates, ErrInfeasible) {
		t.Fatal("ErrNoCandidates should match ErrInfeasible")
	}
}
