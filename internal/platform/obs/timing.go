package obs

import (
	"context"
	"fuel-route-service/internal/platform/logger"
	"fuel-route-service/internal/platform/metrics"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// RequestID returns the request id stored by the HTTP middleware, if any.
func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}

// Time starts timing op; call the returned func with the address of the
// named error result to log and record the outcome.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID := RequestID(ctx)

	return func(errp *error) {
		dur := time.Since(start)
		metrics.OpDurationMs.WithLabelValues(name).Observe(float64(dur.Milliseconds()))

		if errp != nil && *errp != nil {
			metrics.OpErrorsTotal.WithLabelValues(name).Inc()
			logger.L().Warn("op", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds(), "err", *errp)
			return
		}
		logger.L().Debug("op", "req_id", reqID, "op", name, "dur_ms", dur.Milliseconds())
	}
}
