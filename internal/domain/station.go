package domain

// Station is a catalog fuel station. OpisID is the stable identity used
// for deduplication; Location is nil until the station has been geocoded.
type Station struct {
	OpisID   int
	Name     string
	Address  string
	City     string
	State    string
	Price    float64
	Location *Coordinates
}

// ProjectedStation is a station placed on a specific route. It only lives
// for the duration of one planning request.
type ProjectedStation struct {
	Station         Station
	AlongRouteMiles float64
	OffsetMiles     float64
}
