package dto

import "fuel-route-service/internal/domain"

type StationResponse struct {
	OpisID  int      `json:"opis_id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	City    string   `json:"city"`
	State   string   `json:"state"`
	Price   float64  `json:"price"`
	Lon     *float64 `json:"lon"`
	Lat     *float64 `json:"lat"`
}

type ListStationsResponse struct {
	CatalogSize int               `json:"catalog_size"`
	Stations    []StationResponse `json:"stations"`
}

func NewStationResponse(s domain.Station) StationResponse {
	out := StationResponse{
		OpisID:  s.OpisID,
		Name:    s.Name,
		Address: s.Address,
		City:    s.City,
		State:   s.State,
		Price:   s.Price,
	}
	if s.Location != nil {
		lon, lat := s.Location.Lon, s.Location.Lat
		out.Lon, out.Lat = &lon, &lat
	}
	return out
}
