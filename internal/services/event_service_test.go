package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/isdelr/taskmanager-be/internal/auth"
	apperrors "github.com/isdelr/taskmanager-be/internal/errors"
	"github.com/isdelr/taskmanager-be/internal/models"
)

func TestRecentEventsLimitAndScope(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 23, 10, 0, 0, 0, time.UTC)
	step := 0
	svc.events.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}
	al := registerIdentity(t, svc, "al")
	bo := registerIdentity(t, svc, "bo")

	for i := 0; i < MaxEventLimit+5; i++ {
		svc.events.Record(ctx, al.UserID, "task.create", fmt.Sprintf("event %d", i))
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: DefaultEventLimit},
		{name: "negative", limit: -3, want: DefaultEventLimit},
		{name: "explicit", limit: 5, want: 5},
		{name: "capped", limit: 1000, want: MaxEventLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := svc.events.Recent(ctx, al, tt.limit)
			if err != nil {
				t.Fatalf("recent: %v", err)
			}
			if len(events) != tt.want {
				t.Fatalf("events = %d, want %d", len(events), tt.want)
			}
			if events[0].Message != fmt.Sprintf("event %d", MaxEventLimit+4) {
				t.Fatalf("newest = %q", events[0].Message)
			}
		})
	}

	// bo only has the registration event.
	boEvents, err := svc.events.Recent(ctx, bo, 0)
	if err != nil {
		t.Fatalf("recent bo: %v", err)
	}
	if len(boEvents) != 1 || boEvents[0].Type != "auth.register" {
		t.Fatalf("bo events = %+v", boEvents)
	}
}

func TestRecordSwallowsStorageErrors(t *testing.T) {
	events := NewEventService(failingStore{}, nil)
	events.Record(context.Background(), "u1", "task.create", "ignored")

	_, err := events.Recent(context.Background(), auth.Identity{UserID: "u1"}, 0)
	if apperrors.CodeOf(err) != apperrors.CodeStorageUnavailable {
		t.Fatalf("code = %s, want %s", apperrors.CodeOf(err), apperrors.CodeStorageUnavailable)
	}
}

type recordingPublisher struct {
	owners []string
	events []models.Event
}

func (p *recordingPublisher) Publish(ownerID string, event models.Event) {
	p.owners = append(p.owners, ownerID)
	p.events = append(p.events, event)
}

func TestRecordPublishesStoredEvents(t *testing.T) {
	svc := newTestServices(t)
	al := registerIdentity(t, svc, "al")

	publisher := &recordingPublisher{}
	events := NewEventService(svc.store, publisher)
	events.Record(context.Background(), al.UserID, models.EventTaskCreate, "Task 'x' created.")
	if len(publisher.events) != 1 || publisher.owners[0] != al.UserID {
		t.Fatalf("published = %+v to %v", publisher.events, publisher.owners)
	}
	if publisher.events[0].ID == "" || publisher.events[0].Type != models.EventTaskCreate {
		t.Fatalf("published event = %+v", publisher.events[0])
	}

	failing := &recordingPublisher{}
	NewEventService(failingStore{}, failing).Record(context.Background(), al.UserID, models.EventTaskCreate, "lost")
	if len(failing.events) != 0 {
		t.Fatal("events that failed to persist must not be published")
	}
}
