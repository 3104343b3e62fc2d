package dto

import (
	"fuel-route-service/internal/domain"
	"math"

	"github.com/paulmach/orb/geojson"
)

// RouteQuery is the validated form of GET /route query parameters.
type RouteQuery struct {
	Start     string  `validate:"required,max=200"`
	Finish    string  `validate:"required,max=200"`
	TankRange float64 `validate:"gt=0,lte=5000"`
	MPG       float64 `validate:"gt=0,lte=200"`
	Corridor  float64 `validate:"gte=0,lte=100"`
}

type StopResponse struct {
	OpisID          int     `json:"opis_id"`
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	Price           float64 `json:"price"`
	Lon             float64 `json:"lon"`
	Lat             float64 `json:"lat"`
	MilesFromStart  float64 `json:"miles_from_start"`
	LegMiles        float64 `json:"leg_miles"`
	Gallons         float64 `json:"gallons"`
	Cost            float64 `json:"cost"`
	RangeAfterMiles float64 `json:"range_after_miles"`
}

type RouteResponse struct {
	Start           string                     `json:"start"`
	Finish          string                     `json:"finish"`
	RouteMap        *geojson.FeatureCollection `json:"route_map"`
	TotalMiles      float64                    `json:"total_miles"`
	TotalFuelCost   float64                    `json:"total_fuel_cost"`
	TotalGallons    float64                    `json:"total_gallons"`
	DurationSeconds float64                    `json:"duration_seconds"`
	TankRangeMiles  float64                    `json:"tank_range_miles"`
	MilesPerGallon  float64                    `json:"miles_per_gallon"`
	Stops           []StopResponse             `json:"stops"`
}

// NewRouteResponse renders a plan. The route map holds the route line, the
// two endpoints and one point per fuel stop.
func NewRouteResponse(p *domain.RoutePlan) RouteResponse {
	fc := geojson.NewFeatureCollection()

	line := geojson.NewFeature(p.Geometry)
	line.Properties["kind"] = "route"
	line.Properties["distance_miles"] = round(p.TotalMiles, 2)
	fc.Append(line)

	start := geojson.NewFeature(p.StartCoords.Point())
	start.Properties["kind"] = "start"
	start.Properties["name"] = p.Start
	fc.Append(start)

	finish := geojson.NewFeature(p.FinishCoords.Point())
	finish.Properties["kind"] = "finish"
	finish.Properties["name"] = p.Finish
	fc.Append(finish)

	stops := make([]StopResponse, 0, len(p.Stops))
	for i, s := range p.Stops {
		sr := StopResponse{
			OpisID:          s.OpisID,
			Name:            s.Name,
			Address:         s.Address,
			City:            s.City,
			State:           s.State,
			Price:           round(s.Price, 3),
			MilesFromStart:  round(s.AlongRouteMiles, 2),
			LegMiles:        round(s.LegMiles, 2),
			Gallons:         round(s.Gallons, 2),
			Cost:            round(s.LegCost, 2),
			RangeAfterMiles: round(s.RangeAfterMiles, 2),
		}
		if s.Location != nil {
			sr.Lon, sr.Lat = s.Location.Lon, s.Location.Lat

			f := geojson.NewFeature(s.Location.Point())
			f.Properties["kind"] = "fuel_stop"
			f.Properties["index"] = i + 1
			f.Properties["name"] = s.Name
			f.Properties["price"] = sr.Price
			fc.Append(f)
		}
		stops = append(stops, sr)
	}

	return RouteResponse{
		Start:           p.Start,
		Finish:          p.Finish,
		RouteMap:        fc,
		TotalMiles:      round(p.TotalMiles, 2),
		TotalFuelCost:   round(p.TotalFuelCost, 2),
		TotalGallons:    round(p.TotalGallons, 2),
		DurationSeconds: math.Round(p.DurationSeconds),
		TankRangeMiles:  p.TankRangeMiles,
		MilesPerGallon:  p.MilesPerGallon,
		Stops:           stops,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
