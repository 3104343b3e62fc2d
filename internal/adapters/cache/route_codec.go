package cache

import (
	"encoding/json"
	"fmt"
	"fuel-route-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// routeKey identifies a route by its endpoints rounded to ~1 m.
func routeKey(origin, destination domain.Coordinates) (string, string) {
	return origin.Key(), destination.Key()
}

type routeRecord struct {
	Geometry        json.RawMessage `json:"geometry"`
	DistanceMeters  float64         `json:"distance_meters"`
	DurationSeconds float64         `json:"duration_seconds"`
}

func encodeGeometry(ls orb.LineString) ([]byte, error) {
	b, err := geojson.NewGeometry(ls).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode route geometry: %w", err)
	}
	return b, nil
}

func decodeGeometry(b []byte) (orb.LineString, error) {
	g, err := geojson.UnmarshalGeometry(b)
	if err != nil {
		return nil, fmt.Errorf("decode route geometry: %w", err)
	}

	ls, ok := g.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("decode route geometry: got %s, want LineString", g.Type)
	}
	return ls, nil
}

func encodeRoute(r domain.Route) ([]byte, error) {
	geom, err := encodeGeometry(r.Geometry)
	if err != nil {
		return nil, err
	}
	return json.Marshal(routeRecord{
		Geometry:        geom,
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
	})
}

func decodeRoute(b []byte) (domain.Route, error) {
	var rec routeRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.Route{}, fmt.Errorf("decode route: %w", err)
	}

	ls, err := decodeGeometry(rec.Geometry)
	if err != nil {
		return domain.Route{}, err
	}

	return domain.Route{
		Geometry:        ls,
		DistanceMeters:  rec.DistanceMeters,
		DurationSeconds: rec.DurationSeconds,
	}, nil
}
