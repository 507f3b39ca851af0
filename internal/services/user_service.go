package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/taskmanager-be/internal/auth"
	"github.com/isdelr/taskmanager-be/internal/models"
	"github.com/isdelr/taskmanager-be/internal/storage"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// UserService provides registration and credential checks.
type UserService struct {
	store     storage.UserStore
	events    EventServiceProvider
	cost      int
	dummyHash string
	now       func() time.Time
	newID     func() string
}

// NewUserService creates a new UserService hashing passwords at the given bcrypt cost.
func NewUserService(store storage.UserStore, events EventServiceProvider, cost int) (*UserService, error) {
	// Unknown emails are compared against this hash so they cost as much as a
	// wrong password.
	seed := make([]byte, 16)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generate dummy password: %w", err)
	}
	dummyHash, err := auth.HashPassword(hex.EncodeToString(seed), cost)
	if err != nil {
		return nil, err
	}

	return &UserService{
		store:     store,
		events:    events,
		cost:      cost,
		dummyHash: dummyHash,
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// Register validates input, hashes the password and stores a new user.
// The returned user never carries the password hash.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, validationError("username is required")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password, s.cost)
	if err != nil {
		return models.User{}, storageError(err)
	}

	user := models.User{
		ID:           s.newID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return models.User{}, ErrDuplicateCredential
		}
		return models.User{}, storageError(err)
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	s.events.Record(ctx, user.ID, models.EventRegister, fmt.Sprintf("Account '%s' created.", user.Username))
	return user.Sanitized(), nil
}

// Authenticate verifies credentials. Unknown emails and wrong passwords both
// yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, validationError("email and password are required")
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		auth.VerifyPassword(password, s.dummyHash)
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, storageError(err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}

	s.events.Record(ctx, user.ID, models.EventLogin, "Signed in.")
	return user.Sanitized(), nil
}

// FindByEmail looks up a user by normalized email. The result includes the
// password hash and must not be returned to clients as is.
func (s *UserService) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, storageError(err)
	}
	return user, nil
}

// GetUserByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, storageError(err)
	}
	return user.Sanitized(), nil
}

// normalizeEmail trims and lowercases an email and checks it is a bare address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", validationError("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validationError("email is invalid")
	}
	return email, nil
}

func validatePassword(password string) error {
	if password == "" {
		return validationError("password is required")
	}
	if len(password) > auth.MaxPasswordBytes {
		return validationError(fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}
	return nil
}
