package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/isdelr/taskmanager-be/internal/models"
	"github.com/isdelr/taskmanager-be/internal/storage/sqlite"
	"golang.org/x/crypto/bcrypt"
)

var errConnRefused = errors.New("dial tcp: connection refused")

type testServices struct {
	store  *sqlite.Store
	users  *UserService
	tasks  *TaskService
	events *EventService
}

func newTestServices(t *testing.T) testServices {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "services.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	events := NewEventService(store, nil)
	users, err := NewUserService(store, events, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("new user service: %v", err)
	}
	return testServices{
		store:  store,
		users:  users,
		tasks:  NewTaskService(store, events),
		events: events,
	}
}

// failingStore fails every call as an unreachable backend would.
type failingStore struct{}

func (failingStore) InsertUser(context.Context, models.User) error { return errConnRefused }
func (failingStore) FindUserByEmail(context.Context, string) (models.User, error) {
	return models.User{}, errConnRefused
}
func (failingStore) FindUserByID(context.Context, string) (models.User, error) {
	return models.User{}, errConnRefused
}
func (failingStore) InsertTask(context.Context, models.Task) error { return errConnRefused }
func (failingStore) FindTask(context.Context, string, string) (models.Task, error) {
	return models.Task{}, errConnRefused
}
func (failingStore) FindTasks(context.Context, string) ([]models.Task, error) {
	return nil, errConnRefused
}
func (failingStore) DeleteTask(context.Context, string, string) (models.Task, error) {
	return models.Task{}, errConnRefused
}
func (failingStore) InsertEvent(context.Context, models.Event) error { return errConnRefused }
func (failingStore) FindEvents(context.Context, string, int) ([]models.Event, error) {
	return nil, errConnRefused
}
