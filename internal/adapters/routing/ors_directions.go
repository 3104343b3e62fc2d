package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"fuel-route-service/internal/domain"
	"io"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Units        string      `json:"units"`
}

// fetchDirections retrieves the driving route between two points from the
// ORS directions endpoint in GeoJSON format.
func (o *ORSProvider) fetchDirections(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (domain.Route, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates:  [][]float64{origin.CoordsToList(), destination.CoordsToList()},
		Instructions: false,
		Units:        "m",
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.http.doWithRetry(ctx, func() (*http.Request, error) {
		return o.http.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("directions request failed: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Route{}, fmt.Errorf("read directions response: %w", err)
	}

	return parseDirections(body)
}

// parseDirections extracts the first route of an ORS GeoJSON response.
func parseDirections(body []byte) (domain.Route, error) {
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return domain.Route{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(fc.Features) == 0 {
		return domain.Route{}, fmt.Errorf("directions response has no features")
	}

	f := fc.Features[0]
	ls, ok := f.Geometry.(orb.LineString)
	if !ok {
		return domain.Route{}, fmt.Errorf("directions geometry is %T, want LineString", f.Geometry)
	}

	// ORS omits summary fields for zero-length routes.
	r := domain.Route{Geometry: ls}
	if summary, ok := f.Properties["summary"].(map[string]interface{}); ok {
		r.DistanceMeters, _ = summary["distance"].(float64)
		r.DurationSeconds, _ = summary["duration"].(float64)
	}

	return r, nil
}
