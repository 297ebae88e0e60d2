package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/decoyra/internal/models"
	pkghttp "github.com/BradenHooton/decoyra/pkg/http"
)

// StatsServiceInterface defines the interface for attack statistics
type StatsServiceInterface interface {
	Compute(ctx context.Context) models.Stats
}

// StatsHandler serves the attack statistics endpoint
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(service StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

// GetStats returns the statistics rebuilt from the event log
// @Summary Attack statistics
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 429 {object} pkghttp.DetailResponse
// @Router /stats [get]
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, h.service.Compute(r.Context()))
}
