package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry means the route has fewer than two distinct vertices or
// no length, e.g. start and finish resolve to the same point.
var ErrInvalidGeometry = errors.New("invalid route geometry")

// ErrInfeasible means some stretch of the route is longer than the tank range
// and has no candidate station to refuel at.
var ErrInfeasible = errors.New("no feasible refueling plan")

// ErrNoCandidates is a specialization of ErrInfeasible: the corridor held no
// stations at all while the route is longer than one tank.
var ErrNoCandidates = fmt.Errorf("%w: no candidate stations along route", ErrInfeasible)

// ErrInvalidParameters rejects non-positive tank range or fuel efficiency,
// negative corridors and missing endpoints.
var ErrInvalidParameters = errors.New("invalid planning parameters")

// ErrLocationNotFound is returned by geocoders that found no match.
var ErrLocationNotFound = errors.New("location not found")

// ErrUpstream marks failures of an external geocoding or routing service.
var ErrUpstream = errors.New("upstream service error")
