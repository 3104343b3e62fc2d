package services

import "fuel-route-service/internal/domain"

// RouteLabels carries the caller-facing names and resolved endpoints of a route.
type RouteLabels struct {
	Start        string
	Finish       string
	StartCoords  domain.Coordinates
	FinishCoords domain.Coordinates
}

// AssembleRoutePlan combines route metadata with the planner output.
func AssembleRoutePlan(
	labels RouteLabels,
	route domain.Route,
	g *domain.RouteGeometry,
	plan *domain.StopPlan,
	tankRangeMiles float64,
	milesPerGallon float64,
) *domain.RoutePlan {
	out := &domain.RoutePlan{
		Start:           labels.Start,
		Finish:          labels.Finish,
		StartCoords:     labels.StartCoords,
		FinishCoords:    labels.FinishCoords,
		Geometry:        g.Line(),
		TotalMiles:      g.TotalMiles(),
		DurationSeconds: route.DurationSeconds,
		TankRangeMiles:  tankRangeMiles,
		MilesPerGallon:  milesPerGallon,
		Stops:           []domain.FuelStop{},
	}

	if plan != nil {
		out.TotalFuelCost = plan.TotalCost
		out.TotalGallons = plan.TotalGallons
		out.Stops = append(out.Stops, plan.Stops...)
	}

	return out
}
