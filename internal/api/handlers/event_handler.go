package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/taskmanager-be/internal/api/respond"
	"github.com/isdelr/taskmanager-be/internal/auth"
	"github.com/isdelr/taskmanager-be/internal/services"
)

// EventHandler handles HTTP requests for the caller's activity log.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get recent activity/events.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	// Missing or unparsable limits fall back to the service default.
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 0
	}

	events, err := h.service.Recent(r.Context(), identity, limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.List(w, events, len(events))
}
