package handlers

import (
	"context"
	"net/http"
	"time"

	"survivor-league/interfaces"
	"survivor-league/logging"
)

// HealthHandler reports database reachability
type HealthHandler struct {
	db     interfaces.HealthChecker
	logger *logging.Logger
}

func NewHealthHandler(db interfaces.HealthChecker) *HealthHandler {
	return &HealthHandler{db: db, logger: logging.WithPrefix("Health")}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warnf("Database ping failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}
