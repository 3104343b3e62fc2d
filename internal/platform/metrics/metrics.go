package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var msBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelroute_http_requests_total",
		Help: "HTTP requests by method, route pattern and status",
	}, []string{"method", "route", "status"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fuelroute_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: msBuckets,
	}, []string{"route"})
	OpDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fuelroute_op_duration_ms",
		Help:    "Internal operation duration in milliseconds",
		Buckets: msBuckets,
	}, []string{"op"})
	OpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelroute_op_errors_total",
		Help: "Internal operations that returned an error",
	}, []string{"op"})
	PlanStops = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fuelroute_plan_stops",
		Help:    "Number of refuelling stops per successful plan",
		Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12},
	})
	PlanOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelroute_plan_outcomes_total",
		Help: "Planning results by outcome (ok, infeasible, no_candidates, invalid, error)",
	}, []string{"outcome"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelroute_cache_lookups_total",
		Help: "Cache lookups by cache and result (hit, miss)",
	}, []string{"cache", "result"})
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelroute_upstream_requests_total",
		Help: "Requests to external services by service and outcome",
	}, []string{"service", "outcome"})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDurationMs)
	prometheus.MustRegister(OpDurationMs)
	prometheus.MustRegister(OpErrorsTotal)
	prometheus.MustRegister(PlanStops)
	prometheus.MustRegister(PlanOutcomesTotal)
	prometheus.MustRegister(CacheLookupsTotal)
	prometheus.MustRegister(UpstreamRequestsTotal)
}

// Handler exposes every registered collector for scraping.
func Handler() http.Handler { return promhttp.Handler() }
