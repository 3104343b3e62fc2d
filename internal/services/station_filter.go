package services

import (
	"cmp"
	"fuel-route-service/internal/domain"
	"slices"
)

// corridorEpsilon only absorbs rounding in a single haversine offset, so it is
// far tighter than planEpsilon, which covers sums of many leg lengths.
const corridorEpsilon = 1e-9

// FilterStations projects every located station onto the route and keeps the
// ones whose lateral offset is within corridorMiles (inclusive).
//
// Stations without a location, and every station when the geometry is nil,
// are dropped rather than reported as errors.
func FilterStations(
	stations []domain.Station,
	g *domain.RouteGeometry,
	corridorMiles float64,
) []domain.ProjectedStation {
	if g == nil {
		return []domain.ProjectedStation{}
	}

	projected := make([]domain.ProjectedStation, 0, len(stations))
	for _, s := range stations {
		if s.Location == nil {
			continue
		}

		p, ok := ProjectPoint(s.Location.Point(), g)
		if !ok {
			continue
		}

		projected = append(projected, domain.ProjectedStation{
			Station:         s,
			AlongRouteMiles: p.AlongRouteMiles,
			OffsetMiles:     p.OffsetMiles,
		})
	}

	return SelectCandidates(projected, corridorMiles)
}

// SelectCandidates applies the corridor threshold to already projected
// stations, keeps one entry per OpisID and sorts by along-route distance.
func SelectCandidates(projected []domain.ProjectedStation, corridorMiles float64) []domain.ProjectedStation {
	byID := make(map[int]int, len(projected))
	out := make([]domain.ProjectedStation, 0, len(projected))

	for _, p := range projected {
		if p.OffsetMiles > corridorMiles+corridorEpsilon {
			continue
		}

		// A catalog may list a station twice; the cheaper listing wins.
		if idx, ok := byID[p.Station.OpisID]; ok {
			if p.Station.Price < out[idx].Station.Price {
				out[idx] = p
			}
			continue
		}

		byID[p.Station.OpisID] = len(out)
		out = append(out, p)
	}

	slices.SortStableFunc(out, func(a, b domain.ProjectedStation) int {
		if c := cmp.Compare(a.AlongRouteMiles, b.AlongRouteMiles); c != 0 {
			return c
		}
		if c := cmp.Compare(a.OffsetMiles, b.OffsetMiles); c != 0 {
			return c
		}
		return cmp.Compare(a.Station.OpisID, b.Station.OpisID)
	})

	return out
}
