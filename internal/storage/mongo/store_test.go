package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/isdelr/taskmanager-be/internal/models"
	"github.com/isdelr/taskmanager-be/internal/storage"
)

// openTestStore connects to TEST_MONGODB_URI using a throwaway database.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := Open(ctx, uri)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	db := store.client.Database(fmt.Sprintf("taskmanager_test_%d", time.Now().UnixNano()))
	store.users = db.Collection(usersCollection)
	store.tasks = db.Collection(tasksCollection)
	store.events = db.Collection(eventsCollection)
	if err := store.ensureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRejectsBadURI(t *testing.T) {
	if _, err := Open(context.Background(), "not a uri"); err == nil {
		t.Fatal("expected error")
	}
}

func TestUsersAndOwnerScopedTasks(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	alice := models.User{ID: "user-a", Username: "alice", Email: "alice@x.com", PasswordHash: "h", CreatedAt: now}
	if err := store.InsertUser(ctx, alice); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	dup := models.User{ID: "user-b", Username: "bob", Email: "alice@x.com", PasswordHash: "h", CreatedAt: now}
	if err := store.InsertUser(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := store.FindUserByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if got.ID != alice.ID || got.PasswordHash != "h" {
		t.Fatalf("user = %+v", got)
	}

	task := models.Task{ID: "task-1", Title: "buy milk", OwnerID: alice.ID, Owner: alice.Username, CreatedAt: now, UpdatedAt: now}
	if err := store.InsertTask(ctx, task); err != nil {
		t.Fatalf("insert task: %v", err)
	}
	if _, err := store.FindTask(ctx, "user-b", task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}
	tasks, err := store.FindTasks(ctx, alice.ID)
	if err != nil {
		t.Fatalf("find tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Owner != "alice" {
		t.Fatalf("tasks = %+v", tasks)
	}

	if _, err := store.DeleteTask(ctx, alice.ID, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := store.DeleteTask(ctx, alice.ID, task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
