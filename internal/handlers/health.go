package handlers

import (
	"context"
	"log/slog"
	"net/http"

	pkghttp "github.com/BradenHooton/decoyra/pkg/http"
)

// HealthChecker reports whether a dependency can serve requests
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves the root banner and the health probe
type HealthHandler struct {
	store  HealthChecker
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Home answers the root path the way the impersonated service does
// @Summary Service banner
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *HealthHandler) Home(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"message": "Service is running"})
}

// Health returns 503 when the event log cannot be written
// @Summary Health check
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "health check failed", slog.Any("error", err))
		pkghttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
