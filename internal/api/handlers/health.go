package handlers

import (
	"context"
	"fuel-route-service/internal/platform/logger"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness together with database connectivity.
type HealthHandler struct {
	DB Pinger
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{
		"status":    "ok",
		"database":  "connected",
		"timestamp": time.Now().UTC(),
	}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.DB.PingContext(ctx); err != nil {
			logger.L().Error("health check: database ping failed", "err", err)
			res["status"] = "error"
			res["database"] = "disconnected"
			writeJSON(w, r, http.StatusServiceUnavailable, res)
			return
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
