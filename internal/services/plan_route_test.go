package services

import (
	"context"
	"errors"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/db"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func newStationRepo(t *testing.T, stations ...domain.Station) *repositories.SQLStationRepository {
	t.Helper()

	conn, err := db.OpenSQLite(t.TempDir() + "/plan.db")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := repositories.InitSchema(conn, db.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	repo := repositories.NewSQLStationRepository(conn, db.SQLite)
	if len(stations) > 0 {
		if err := repo.UpsertStations(context.Background(), stations); err != nil {
			t.Fatalf("seed stations: %v", err)
		}
	}
	return repo
}

func equatorProvider() *routing.MockProvider {
	return routing.NewMockProvider(map[string]domain.Coordinates{
		"West Point": {Lon: 0, Lat: 0},
		"East Point": {Lon: 14, Lat: 0},
	})
}

func TestPlanFuelRoute(t *testing.T) {
	repo := newStationRepo(t,
		located(1, 3.00, orb.Point{5, 0.05}),
		located(2, 2.50, orb.Point{7, -0.02}),
		located(3, 1.00, orb.Point{7.5, 0.5}),
		located(4, 0.50, orb.Point{50, 0}),
	)
	provider := equatorProvider()

	plan, err := PlanFuelRoute(context.Background(), PlanRouteRequest{
		Start:          "West Point",
		Finish:         "east point",
		TankRangeMiles: 500,
		MilesPerGallon: 10,
		CorridorMiles:  10,
	}, provider, provider, repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.TotalMiles < 960 || plan.TotalMiles > 975 {
		t.Fatalf("total miles = %f, want about 968", plan.TotalMiles)
	}
	if len(plan.Stops) != 1 {
		t.Fatalf("stops = %d, want 1", len(plan.Stops))
	}
	if plan.Stops[0].OpisID != 2 {
		t.Fatalf("stop = %d, want station 2", plan.Stops[0].OpisID)
	}

	// Arrives with (500 - along) in the tank and needs (total - along).
	wantGallons := (plan.TotalMiles - 500) / 10
	if math.Abs(plan.TotalGallons-wantGallons) > 1e-6 {
		t.Fatalf("gallons = %f, want %f", plan.TotalGallons, wantGallons)
	}
	if math.Abs(plan.TotalFuelCost-wantGallons*2.5) > 1e-6 {
		t.Fatalf("cost = %f, want %f", plan.TotalFuelCost, wantGallons*2.5)
	}
	if plan.Start != "West Point" || plan.FinishCoords.Lon != 14 {
		t.Fatalf("labels not carried through: %+v", plan)
	}
	if len(plan.Geometry) != 2 {
		t.Fatalf("geometry has %d points, want 2", len(plan.Geometry))
	}
}

func TestPlanFuelRouteShortTripNeedsNoStops(t *testing.T) {
	plan, err := PlanFuelRoute(context.Background(), PlanRouteRequest{
		Start:          "West Point",
		Finish:         "East Point",
		TankRangeMiles: 1500,
		MilesPerGallon: 10,
		CorridorMiles:  10,
	}, equatorProvider(), equatorProvider(), newStationRepo(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Stops) != 0 || plan.TotalFuelCost != 0 {
		t.Fatalf("stops=%d cost=%f, want none", len(plan.Stops), plan.TotalFuelCost)
	}
}

func TestPlanFuelRouteErrors(t *testing.T) {
	provider := equatorProvider()
	repo := newStationRepo(t)

	cases := map[string]struct {
		req  PlanRouteRequest
		want error
	}{
		"unknown place": {
			req:  PlanRouteRequest{Start: "West Point", Finish: "Atlantis", TankRangeMiles: 500, MilesPerGallon: 10},
			want: domain.ErrLocationNotFound,
		},
		"missing finish": {
			req:  PlanRouteRequest{Start: "West Point", TankRangeMiles: 500, MilesPerGallon: 10},
			want: domain.ErrInvalidParameters,
		},
		"no stations": {
			req:  PlanRouteRequest{Start: "West Point", Finish: "East Point", TankRangeMiles: 500, MilesPerGallon: 10, CorridorMiles: 10},
			want: domain.ErrNoCandidates,
		},
		"same place": {
			req:  PlanRouteRequest{Start: "West Point", Finish: "west point", TankRangeMiles: 500, MilesPerGallon: 10},
			want: domain.ErrInvalidGeometry,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PlanFuelRoute(context.Background(), tc.req, provider, provider, repo)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
