package domain

import "github.com/paulmach/orb"

// Route is a driving route as returned by an external routing service.
type Route struct {
	Geometry        orb.LineString
	DistanceMeters  float64
	DurationSeconds float64
}

// RoutePlan is the assembled answer to a planning request: the route, its
// totals, and the ordered refuelling stops. It is immutable planning data.
type RoutePlan struct {
	Start           string
	Finish          string
	StartCoords     Coordinates
	FinishCoords    Coordinates
	Geometry        orb.LineString
	TotalMiles      float64
	DurationSeconds float64
	TankRangeMiles  float64
	MilesPerGallon  float64
	TotalFuelCost   float64
	TotalGallons    float64
	Stops           []FuelStop
}
