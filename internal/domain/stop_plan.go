package domain

// FuelStop is one refuelling stop chosen by the planner. The embedded
// Station carries the descriptive fields; Price is the price paid here.
// LegMiles is the distance driven since the previous stop (or the origin);
// Gallons is the fuel bought here and LegCost = Gallons * Price.
type FuelStop struct {
	Station

	AlongRouteMiles float64
	Price           float64
	LegMiles        float64
	Gallons         float64
	LegCost         float64
	RangeAfterMiles float64
}

// StopPlan is the ordered result of stop planning for one route.
type StopPlan struct {
	Stops         []FuelStop
	FinalLegMiles float64
	TotalCost     float64
	TotalGallons  float64
}
