// Package mongo implements the storage contract over MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/taskmanager-be/internal/models"
	"github.com/isdelr/taskmanager-be/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// DefaultDatabase is used when the connection URI names no database.
const DefaultDatabase = "taskmanager"

const (
	usersCollection  = "users"
	tasksCollection  = "tasks"
	eventsCollection = "events"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}

type taskDoc struct {
	ID            string    `bson:"_id"`
	OwnerID       string    `bson:"ownerId"`
	OwnerUsername string    `bson:"ownerUsername"`
	Title         string    `bson:"title"`
	Completed     bool      `bson:"completed"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

type eventDoc struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"ownerId"`
	Type      string    `bson:"type"`
	Message   string    `bson:"message"`
	CreatedAt time.Time `bson:"createdAt"`
}

// Store implements storage.Store over MongoDB.
type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	tasks  *mongo.Collection
	events *mongo.Collection
}

var _ storage.Store = (*Store)(nil)

// Open connects to uri, verifies the primary is reachable and ensures indexes.
func Open(ctx context.Context, uri string) (*Store, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("parse mongodb uri: %w", err)
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	store := &Store{
		client: client,
		users:  db.Collection(usersCollection),
		tasks:  db.Collection(tasksCollection),
		events: db.Collection(eventsCollection),
	}
	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return store, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return err
	}
	if _, err := s.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := s.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// Ping checks the connection to the primary.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// InsertUser stores a new user. Username or email collisions yield storage.ErrDuplicate.
func (s *Store) InsertUser(ctx context.Context, user models.User) error {
	_, err := s.users.InsertOne(ctx, userDoc{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user, including the password hash.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

// FindUserByID retrieves a user, including the password hash.
func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (models.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, storage.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return models.User{
		ID:           doc.ID,
		Username:     doc.Username,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt.UTC(),
	}, nil
}

// InsertTask stores a new task.
func (s *Store) InsertTask(ctx context.Context, task models.Task) error {
	_, err := s.tasks.InsertOne(ctx, taskDoc{
		ID:            task.ID,
		OwnerID:       task.OwnerID,
		OwnerUsername: task.Owner,
		Title:         task.Title,
		Completed:     task.Completed,
		CreatedAt:     task.CreatedAt.UTC(),
		UpdatedAt:     task.UpdatedAt.UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// FindTask retrieves a task owned by ownerID.
func (s *Store) FindTask(ctx context.Context, ownerID, taskID string) (models.Task, error) {
	var doc taskDoc
	err := s.tasks.FindOne(ctx, bson.M{"_id": taskID, "ownerId": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("find task: %w", err)
	}
	return doc.toModel(), nil
}

// FindTasks lists the owner's tasks by creation time.
func (s *Store) FindTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.tasks.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	var docs []taskDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.toModel())
	}
	return tasks, nil
}

// DeleteTask removes a task owned by ownerID and returns it.
func (s *Store) DeleteTask(ctx context.Context, ownerID, taskID string) (models.Task, error) {
	var doc taskDoc
	err := s.tasks.FindOneAndDelete(ctx, bson.M{"_id": taskID, "ownerId": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("delete task: %w", err)
	}
	return doc.toModel(), nil
}

// InsertEvent stores an activity log entry.
func (s *Store) InsertEvent(ctx context.Context, event models.Event) error {
	_, err := s.events.InsertOne(ctx, eventDoc{
		ID:        event.ID,
		OwnerID:   event.OwnerID,
		Type:      event.Type,
		Message:   event.Message,
		CreatedAt: event.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// FindEvents returns the owner's most recent events, newest first.
func (s *Store) FindEvents(ctx context.Context, ownerID string, limit int) ([]models.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.events.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]models.Event, 0, len(docs))
	for _, doc := range docs {
		events = append(events, models.Event{
			ID:        doc.ID,
			OwnerID:   doc.OwnerID,
			Type:      doc.Type,
			Message:   doc.Message,
			CreatedAt: doc.CreatedAt.UTC(),
		})
	}
	return events, nil
}

func (d taskDoc) toModel() models.Task {
	return models.Task{
		ID:        d.ID,
		Title:     d.Title,
		Completed: d.Completed,
		OwnerID:   d.OwnerID,
		Owner:     d.OwnerUsername,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
