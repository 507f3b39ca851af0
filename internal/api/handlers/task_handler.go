package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/taskmanager-be/internal/api/respond"
	"github.com/isdelr/taskmanager-be/internal/auth"
	"github.com/isdelr/taskmanager-be/internal/services"
)

// TaskHandler handles HTTP requests for the caller's tasks.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTaskPayload is the body accepted by Create. Any owner sent by the
// client is ignored.
type CreateTaskPayload struct {
	Title string `json:"title"`
}

// GetAll lists the caller's tasks.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	tasks, err := h.service.List(r.Context(), identity)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.List(w, tasks, len(tasks))
}

// Get returns a single task owned by the caller.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	task, err := h.service.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, task)
}

// Create adds a task owned by the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	var payload CreateTaskPayload
	if err := respond.DecodeJSON(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	task, err := h.service.Create(r.Context(), identity, payload.Title)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, task)
}

// Delete removes a task owned by the caller.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	task, err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSONMessage(w, http.StatusOK, task, "Task deleted successfully")
}
