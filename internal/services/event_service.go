package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/taskmanager-be/internal/auth"
	"github.com/isdelr/taskmanager-be/internal/models"
	"github.com/isdelr/taskmanager-be/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultEventLimit is used when no positive limit is requested.
	DefaultEventLimit = 20
	// MaxEventLimit caps how many events a single call returns.
	MaxEventLimit = 100
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(ctx context.Context, ownerID, eventType, message string)
	Recent(ctx context.Context, identity auth.Identity, limit int) ([]models.Event, error)
}

// EventPublisher pushes recorded events to live subscribers.
type EventPublisher interface {
	Publish(ownerID string, event models.Event)
}

// EventService records and lists per-user activity.
type EventService struct {
	store     storage.EventStore
	publisher EventPublisher
	now       func() time.Time
	newID     func() string
}

// NewEventService creates a new EventService. publisher may be nil.
func NewEventService(store storage.EventStore, publisher EventPublisher) *EventService {
	return &EventService{store: store, publisher: publisher, now: time.Now, newID: uuid.NewString}
}

// Record logs a new event for the owner. Failures are logged and swallowed.
func (s *EventService) Record(ctx context.Context, ownerID, eventType, message string) {
	event := models.Event{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Type:      eventType,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("owner_id", ownerID).Str("event_type", eventType).Msg("Failed to record event")
		return
	}
	if s.publisher != nil {
		s.publisher.Publish(ownerID, event)
	}
}

// Recent retrieves the identity's most recent events, newest first.
func (s *EventService) Recent(ctx context.Context, identity auth.Identity, limit int) ([]models.Event, error) {
	if identity.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	if limit > MaxEventLimit {
		limit = MaxEventLimit
	}

	events, err := s.store.FindEvents(ctx, identity.UserID, limit)
	if err != nil {
		return nil, storageError(err)
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}
