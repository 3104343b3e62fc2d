package handlers

import (
	"errors"
	"fmt"
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/logger"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// VehicleDefaults apply when a request does not override them.
type VehicleDefaults struct {
	TankRangeMiles float64
	MilesPerGallon float64
	CorridorMiles  float64
}

type RouteHandler struct {
	Geocoder ports.Geocoder
	Routes   ports.RouteProvider
	Repo     ports.StationRepository
	Defaults VehicleDefaults
	validate *validator.Validate
}

func NewRouteHandler(
	geocoder ports.Geocoder,
	routes ports.RouteProvider,
	repo ports.StationRepository,
	defaults VehicleDefaults,
) *RouteHandler {
	return &RouteHandler{
		Geocoder: geocoder,
		Routes:   routes,
		Repo:     repo,
		Defaults: defaults,
		validate: validator.New(),
	}
}

// Plan answers GET /route?start=&finish= with the route map, the total
// distance and the cheapest set of fuel stops.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := services.PlanFuelRoute(r.Context(), services.PlanRouteRequest{
		Start:          q.Start,
		Finish:         q.Finish,
		TankRangeMiles: q.TankRange,
		MilesPerGallon: q.MPG,
		CorridorMiles:  q.Corridor,
	}, h.Geocoder, h.Routes, h.Repo)
	if err != nil {
		status, msg := planErrorStatus(err)
		logger.L().Warn("plan route failed",
			"req_id", obs.RequestID(r.Context()), "start", q.Start, "finish", q.Finish, "status", status, "err", err)
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(plan))
}

func (h *RouteHandler) parseQuery(r *http.Request) (dto.RouteQuery, error) {
	values := r.URL.Query()

	q := dto.RouteQuery{
		Start:     strings.TrimSpace(values.Get("start")),
		Finish:    strings.TrimSpace(values.Get("finish")),
		TankRange: h.Defaults.TankRangeMiles,
		MPG:       h.Defaults.MilesPerGallon,
		Corridor:  h.Defaults.CorridorMiles,
	}

	for name, dst := range map[string]*float64{
		"tank_range": &q.TankRange,
		"mpg":        &q.MPG,
		"corridor":   &q.Corridor,
	} {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("%s must be a number", name)
		}
		*dst = v
	}

	if err := h.validate.Struct(q); err != nil {
		return q, validationMessage(err)
	}
	return q, nil
}

var queryParamNames = map[string]string{
	"Start":     "start",
	"Finish":    "finish",
	"TankRange": "tank_range",
	"MPG":       "mpg",
	"Corridor":  "corridor",
}

func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.New("invalid query parameters")
	}

	fe := verrs[0]
	name := queryParamNames[fe.Field()]
	switch fe.Tag() {
	case "required":
		if name == "start" || name == "finish" {
			return errors.New("Please provide start and finish locations")
		}
		return fmt.Errorf("%s is required", name)
	case "gt":
		return fmt.Errorf("%s must be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be at least %s", name, fe.Param())
	case "lte", "max":
		return fmt.Errorf("%s must be at most %s", name, fe.Param())
	}
	return fmt.Errorf("%s is invalid", name)
}

// planErrorStatus maps planning failures to an HTTP status and a message
// that is safe to show to clients.
func planErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		return http.StatusBadRequest, "Could not geocode locations. Try a simple format like 'Austin, TX'"
	case errors.Is(err, domain.ErrInvalidParameters):
		return http.StatusBadRequest, "invalid route parameters"
	case errors.Is(err, domain.ErrNoCandidates):
		return http.StatusUnprocessableEntity, "no fuel stations found within the corridor of this route"
	case errors.Is(err, domain.ErrInfeasible):
		return http.StatusUnprocessableEntity, "route cannot be completed with the given tank range: " + infeasibleDetail(err)
	case errors.Is(err, domain.ErrInvalidGeometry):
		return http.StatusUnprocessableEntity, "start and finish resolve to the same place or the route is empty"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "routing service unavailable, try again later"
	}
	return http.StatusInternalServerError, "internal server error"
}

// infeasibleDetail keeps the planner's mile details and drops the wrapping.
func infeasibleDetail(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, domain.ErrInfeasible.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrInfeasible.Error())+2:]
	}
	return "no reachable station"
}
