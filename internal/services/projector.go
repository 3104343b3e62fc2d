package services

import (
	"fuel-route-service/internal/domain"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Projection places a point on a route: the arc length from the route start
// to the nearest point on the polyline, and the distance to that point.
type Projection struct {
	AlongRouteMiles float64
	OffsetMiles     float64
}

// ProjectPoint projects p onto the nearest point of the route polyline.
//
// The foot of the perpendicular is located per segment in a local
// equirectangular frame and clamped to the segment ends; the offset and the
// along-route distances are haversine miles. The segment with the smallest
// offset wins and, on a tie, the earlier segment is kept.
func ProjectPoint(p orb.Point, g *domain.RouteGeometry) (Projection, bool) {
	if g == nil || g.Segments() < 1 {
		return Projection{}, false
	}

	line := g.Line()
	best := Projection{OffsetMiles: math.Inf(1)}
	found := false

	for i := 0; i < len(line)-1; i++ {
		a, b := line[i], line[i+1]
		foot := segmentFoot(p, a, b)

		offset := geo.Distance(p, foot) / domain.MetersPerMile
		if offset < best.OffsetMiles {
			best = Projection{
				AlongRouteMiles: g.MilesAt(i) + geo.Distance(a, foot)/domain.MetersPerMile,
				OffsetMiles:     offset,
			}
			found = true
		}
	}

	if !found {
		return Projection{}, false
	}

	// Guard against rounding pushing the last foot past the route end.
	best.AlongRouteMiles = math.Min(best.AlongRouteMiles, g.TotalMiles())
	return best, true
}

// segmentFoot returns the point of segment a-b closest to p, computed with
// longitude scaled by the cosine of the segment's mean latitude.
func segmentFoot(p, a, b orb.Point) orb.Point {
	scale := math.Cos((a.Lat() + b.Lat()) / 2 * math.Pi / 180)

	dx := (b.Lon() - a.Lon()) * scale
	dy := b.Lat() - a.Lat()
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}

	px := (p.Lon() - a.Lon()) * scale
	py := p.Lat() - a.Lat()

	t := (px*dx + py*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	return orb.Point{
		a.Lon() + t*(b.Lon()-a.Lon()),
		a.Lat() + t*(b.Lat()-a.Lat()),
	}
}
