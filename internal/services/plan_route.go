package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/metrics"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"strings"

	"github.com/paulmach/orb/geo"
	"golang.org/x/sync/errgroup"
)

type PlanRouteRequest struct {
	Start          string
	Finish         string
	TankRangeMiles float64
	MilesPerGallon float64
	CorridorMiles  float64
}

// PlanFuelRoute resolves both endpoints, fetches the driving route and plans
// the cheapest refuelling stops along it.
func PlanFuelRoute(
	ctx context.Context,
	req PlanRouteRequest,
	geocoder ports.Geocoder,
	routes ports.RouteProvider,
	repo ports.StationRepository,
) (plan *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "plan_route")(&err)
	defer func() { recordOutcome(plan, err) }()

	start, finish := strings.TrimSpace(req.Start), strings.TrimSpace(req.Finish)
	if start == "" || finish == "" {
		return nil, fmt.Errorf("plan route: %w: start and finish are required", domain.ErrInvalidParameters)
	}
	if req.CorridorMiles < 0 {
		return nil, fmt.Errorf("plan route: %w: corridor must not be negative", domain.ErrInvalidParameters)
	}

	var origin, destination domain.Coordinates
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := geocoder.Geocode(gctx, start)
		if err != nil {
			return fmt.Errorf("geocode start %q: %w", start, err)
		}
		origin = c
		return nil
	})
	g.Go(func() error {
		c, err := geocoder.Geocode(gctx, finish)
		if err != nil {
			return fmt.Errorf("geocode finish %q: %w", finish, err)
		}
		destination = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	route, err := routes.GetRoute(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("plan route: get route: %w", err)
	}

	geom, err := domain.NewRouteGeometry(route.Geometry)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	// Stations outside the padded box cannot fall inside the corridor.
	bound := geo.BoundPad(geom.Bound(), req.CorridorMiles*domain.MetersPerMile)
	stations, err := repo.ListStationsInBounds(ctx, bound)
	if err != nil {
		return nil, fmt.Errorf("plan route: list stations: %w", err)
	}

	candidates := timedFilter(ctx, stations, geom, req.CorridorMiles)

	stops, err := timedPlan(ctx, geom.TotalMiles(), req.TankRangeMiles, req.MilesPerGallon, candidates)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	labels := RouteLabels{
		Start:        start,
		Finish:       finish,
		StartCoords:  origin,
		FinishCoords: destination,
	}
	return AssembleRoutePlan(labels, route, geom, stops, req.TankRangeMiles, req.MilesPerGallon), nil
}

func timedFilter(ctx context.Context, stations []domain.Station, g *domain.RouteGeometry, corridorMiles float64) []domain.ProjectedStation {
	defer obs.Time(ctx, "filter_stations")(nil)
	return FilterStations(stations, g, corridorMiles)
}

func timedPlan(ctx context.Context, total, tank, mpg float64, candidates []domain.ProjectedStation) (plan *domain.StopPlan, err error) {
	defer obs.Time(ctx, "plan_stops")(&err)
	return PlanStops(total, tank, mpg, candidates)
}

func recordOutcome(plan *domain.RoutePlan, err error) {
	switch {
	case err == nil:
		metrics.PlanOutcomesTotal.WithLabelValues("ok").Inc()
		metrics.PlanStops.Observe(float64(len(plan.Stops)))
	case errors.Is(err, domain.ErrNoCandidates):
		metrics.PlanOutcomesTotal.WithLabelValues("no_candidates").Inc()
	case errors.Is(err, domain.ErrInfeasible):
		metrics.PlanOutcomesTotal.WithLabelValues("infeasible").Inc()
	case errors.Is(err, domain.ErrInvalidGeometry), errors.Is(err, domain.ErrInvalidParameters), errors.Is(err, domain.ErrLocationNotFound):
		metrics.PlanOutcomesTotal.WithLabelValues("invalid").Inc()
	default:
		metrics.PlanOutcomesTotal.WithLabelValues("error").Inc()
	}
}
