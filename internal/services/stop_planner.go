package services

import (
	"cmp"
	"fmt"
	"fuel-route-service/internal/domain"
	"math"
	"slices"
)

// planEpsilon absorbs floating point noise accumulated over cumulative route
// miles, so a leg of exactly one tank is never reported as infeasible.
const planEpsilon = 1e-6

// PlanStops chooses the cheapest feasible sequence of refuelling stops.
//
// The vehicle leaves mile 0 with a full tank. At every chosen stop it buys
// the least fuel that lets it reach the nearest strictly cheaper station
// within one tank, or the destination when there is none, capped at a full
// tank. The next stop is the cheapest station reachable with the fuel on
// board; equal prices prefer the farther station. No leg is longer than
// tankRangeMiles.
//
// candidates must be projected onto the same route as totalMiles; their
// order does not matter.
func PlanStops(
	totalMiles float64,
	tankRangeMiles float64,
	milesPerGallon float64,
	candidates []domain.ProjectedStation,
) (*domain.StopPlan, error) {
	if totalMiles <= 0 {
		return nil, fmt.Errorf("plan stops: %w: total length %.3f mi", domain.ErrInvalidGeometry, totalMiles)
	}
	if tankRangeMiles <= 0 {
		return nil, fmt.Errorf("plan stops: %w: tank range must be positive", domain.ErrInvalidParameters)
	}
	if milesPerGallon <= 0 {
		return nil, fmt.Errorf("plan stops: %w: miles per gallon must be positive", domain.ErrInvalidParameters)
	}

	plan := &domain.StopPlan{Stops: []domain.FuelStop{}}

	if totalMiles <= tankRangeMiles+planEpsilon {
		plan.FinalLegMiles = totalMiles
		return plan, nil
	}

	stations := collapseByPosition(candidates, totalMiles)
	if len(stations) == 0 {
		return nil, fmt.Errorf("plan stops: %w", domain.ErrNoCandidates)
	}

	position := 0.0
	rangeLeft := tankRangeMiles
	first := 0

	for totalMiles-position > rangeLeft+planEpsilon {
		for first < len(stations) && stations[first].AlongRouteMiles <= position+planEpsilon {
			first++
		}

		// Stations are sorted, so "<=" leaves the farthest of equally cheap ones.
		best := -1
		for i := first; i < len(stations) && stations[i].AlongRouteMiles <= position+rangeLeft+planEpsilon; i++ {
			if best < 0 || stations[i].Station.Price <= stations[best].Station.Price {
				best = i
			}
		}

		if best < 0 {
			return nil, fmt.Errorf(
				"plan stops: %w: no station within %.1f mi after mile %.1f (%.1f mi remaining)",
				domain.ErrInfeasible, rangeLeft, position, totalMiles-position,
			)
		}

		stop := stations[best]
		leg := stop.AlongRouteMiles - position
		arrival := math.Max(0, rangeLeft-leg)

		need := totalMiles - stop.AlongRouteMiles
		if j := nextCheaper(stations, best, tankRangeMiles); j >= 0 {
			need = stations[j].AlongRouteMiles - stop.AlongRouteMiles
		}
		need = math.Min(need, tankRangeMiles)

		bought := math.Max(0, need-arrival)
		gallons := bought / milesPerGallon
		cost := gallons * stop.Station.Price

		plan.Stops = append(plan.Stops, domain.FuelStop{
			Station:         stop.Station,
			AlongRouteMiles: stop.AlongRouteMiles,
			Price:           stop.Station.Price,
			LegMiles:        leg,
			Gallons:         gallons,
			LegCost:         cost,
			RangeAfterMiles: arrival + bought,
		})
		plan.TotalCost += cost
		plan.TotalGallons += gallons

		position = stop.AlongRouteMiles
		rangeLeft = arrival + bought
	}

	plan.FinalLegMiles = totalMiles - position
	return plan, nil
}

// nextCheaper returns the index of the nearest station after i, within one
// tank of it, whose price is strictly lower, or -1.
func nextCheaper(stations []domain.ProjectedStation, i int, tankRangeMiles float64) int {
	limit := stations[i].AlongRouteMiles + tankRangeMiles + planEpsilon
	for j := i + 1; j < len(stations) && stations[j].AlongRouteMiles <= limit; j++ {
		if stations[j].Station.Price < stations[i].Station.Price {
			return j
		}
	}
	return -1
}

// collapseByPosition sorts a copy of the candidates, clamps them to the route
// and keeps only the cheapest station at each along-route position.
func collapseByPosition(candidates []domain.ProjectedStation, totalMiles float64) []domain.ProjectedStation {
	sorted := make([]domain.ProjectedStation, 0, len(candidates))
	for _, c := range candidates {
		c.AlongRouteMiles = math.Max(0, math.Min(totalMiles, c.AlongRouteMiles))
		sorted = append(sorted, c)
	}

	slices.SortStableFunc(sorted, func(a, b domain.ProjectedStation) int {
		if c := cmp.Compare(a.AlongRouteMiles, b.AlongRouteMiles); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Station.Price, b.Station.Price); c != 0 {
			return c
		}
		return cmp.Compare(a.Station.OpisID, b.Station.OpisID)
	})

	out := make([]domain.ProjectedStation, 0, len(sorted))
	for _, c := range sorted {
		if n := len(out); n > 0 && c.AlongRouteMiles-out[n-1].AlongRouteMiles <= planEpsilon {
			continue
		}
		out = append(out, c)
	}
	return out
}
