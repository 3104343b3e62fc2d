package handlers

import (
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/platform/logger"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultStationLimit = 100
	maxStationLimit     = 1000
)

// StationHandler exposes read-only catalog browsing.
type StationHandler struct {
	Repo ports.StationRepository
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := ports.StationQuery{
		State: strings.TrimSpace(r.URL.Query().Get("state")),
		Limit: defaultStationLimit,
	}
	if len(q.State) > 2 {
		writeError(w, r, http.StatusBadRequest, "state must be a two letter code")
		return
	}

	var ok bool
	if q.Limit, ok = intParam(r, "limit", defaultStationLimit); !ok || q.Limit < 1 || q.Limit > maxStationLimit {
		writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
		return
	}
	if q.Offset, ok = intParam(r, "offset", 0); !ok || q.Offset < 0 {
		writeError(w, r, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	stations, err := h.Repo.ListStations(r.Context(), q)
	if err != nil {
		logger.L().Error("list stations failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	total, err := h.Repo.CountStations(r.Context())
	if err != nil {
		logger.L().Error("count stations failed", "req_id", obs.RequestID(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStationsResponse{
		CatalogSize: total,
		Stations:    make([]dto.StationResponse, 0, len(stations)),
	}
	for _, s := range stations {
		res.Stations = append(res.Stations, dto.NewStationResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func intParam(r *http.Request, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}
