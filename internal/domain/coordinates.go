package domain

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Point converts the coordinates to an orb point (lon, lat order).
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// Key returns a stable cache key rounded to ~1 m precision.
func (c Coordinates) Key() string { return fmt.Sprintf("%.5f,%.5f", c.Lon, c.Lat) }

// Valid reports whether the coordinates are inside WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func CoordinatesFromPoint(p orb.Point) Coordinates {
	return Coordinates{Lon: p.Lon(), Lat: p.Lat()}
}
