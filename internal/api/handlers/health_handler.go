package handlers

import (
	"net/http"

	"github.com/isdelr/taskmanager-be/internal/api/respond"
	apperrors "github.com/isdelr/taskmanager-be/internal/errors"
	"github.com/isdelr/taskmanager-be/internal/monitoring"
)

// HealthReporter exposes the latest store health check.
type HealthReporter interface {
	Status() monitoring.HealthStatus
}

// HealthHandler reports service and store health.
type HealthHandler struct {
	reporter HealthReporter
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(reporter HealthReporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

// Get returns 200 unless the last store check failed.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	status := h.reporter.Status()
	if status.Store == monitoring.StateDown {
		respond.Error(w, r, apperrors.New(apperrors.CodeStorageUnavailable, "storage unavailable"))
		return
	}
	respond.JSON(w, http.StatusOK, status)
}
