package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/taskmanager-be/internal/auth"
	"github.com/isdelr/taskmanager-be/internal/models"
	"github.com/isdelr/taskmanager-be/internal/storage"
	"github.com/rs/zerolog/log"
)

// TaskServiceProvider defines the interface for task services. Every
// operation is scoped to the calling identity.
type TaskServiceProvider interface {
	List(ctx context.Context, identity auth.Identity) ([]models.Task, error)
	Get(ctx context.Context, identity auth.Identity, taskID string) (models.Task, error)
	Create(ctx context.Context, identity auth.Identity, title string) (models.Task, error)
	Delete(ctx context.Context, identity auth.Identity, taskID string) (models.Task, error)
}

// TaskService provides business logic for task management.
type TaskService struct {
	store  storage.TaskStore
	events EventServiceProvider
	now    func() time.Time
	newID  func() string
}

// NewTaskService creates a new TaskService.
func NewTaskService(store storage.TaskStore, events EventServiceProvider) *TaskService {
	return &TaskService{store: store, events: events, now: time.Now, newID: uuid.NewString}
}

// List retrieves all tasks owned by the identity in creation order.
func (s *TaskService) List(ctx context.Context, identity auth.Identity) ([]models.Task, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthenticated
	}
	tasks, err := s.store.FindTasks(ctx, identity.UserID)
	if err != nil {
		return nil, storageError(err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Get retrieves a single task. Missing tasks and tasks owned by someone
// else are indistinguishable.
func (s *TaskService) Get(ctx context.Context, identity auth.Identity, taskID string) (models.Task, error) {
	if identity.UserID == "" {
		return models.Task{}, ErrUnauthenticated
	}
	task, err := s.store.FindTask(ctx, identity.UserID, strings.TrimSpace(taskID))
	if errors.Is(err, storage.ErrNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, storageError(err)
	}
	return task, nil
}

// Create stores a new incomplete task owned by the identity.
func (s *TaskService) Create(ctx context.Context, identity auth.Identity, title string) (models.Task, error) {
	if identity.UserID == "" {
		return models.Task{}, ErrUnauthenticated
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, validationError("title is required")
	}

	now := s.now().UTC()
	task := models.Task{
		ID:        s.newID(),
		Title:     title,
		Completed: false,
		OwnerID:   identity.UserID,
		Owner:     identity.Username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertTask(ctx, task); err != nil {
		return models.Task{}, storageError(err)
	}

	log.Info().Str("task_id", task.ID).Str("owner_id", task.OwnerID).Msg("Task created")
	s.events.Record(ctx, identity.UserID, models.EventTaskCreate, fmt.Sprintf("Task '%s' created.", task.Title))
	return task, nil
}

// Delete removes a task owned by the identity and returns it.
func (s *TaskService) Delete(ctx context.Context, identity auth.Identity, taskID string) (models.Task, error) {
	if identity.UserID == "" {
		return models.Task{}, ErrUnauthenticated
	}
	task, err := s.store.DeleteTask(ctx, identity.UserID, strings.TrimSpace(taskID))
	if errors.Is(err, storage.ErrNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, storageError(err)
	}

	log.Info().Str("task_id", task.ID).Str("owner_id", task.OwnerID).Msg("Task deleted")
	s.events.Record(ctx, identity.UserID, models.EventTaskDelete, fmt.Sprintf("Task '%s' deleted.", task.Title))
	return task, nil
}
