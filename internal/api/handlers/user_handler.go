package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/taskmanager-be/internal/api/respond"
	"github.com/isdelr/taskmanager-be/internal/auth"
	apperrors "github.com/isdelr/taskmanager-be/internal/errors"
	"github.com/isdelr/taskmanager-be/internal/models"
	"github.com/isdelr/taskmanager-be/internal/services"
	"github.com/rs/zerolog/log"
)

// TokenIssuer signs identity tokens for authenticated users.
type TokenIssuer interface {
	Issue(user models.User) (string, time.Time, error)
}

// UserHandler handles HTTP requests for registration and login.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  TokenIssuer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens TokenIssuer) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Register handles new user registration and issues a token for the new account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := respond.DecodeJSON(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.writeToken(w, r, http.StatusCreated, user)
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := respond.DecodeJSON(w, r, &payload); err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeAuthenticationFailed {
			log.Warn().Str("request_ip", r.RemoteAddr).Msg("Failed authentication attempt")
		}
		respond.Error(w, r, err)
		return
	}

	h.writeToken(w, r, http.StatusOK, user)
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve identity from context")
		respond.Error(w, r, services.ErrUnauthenticated)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) writeToken(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		respond.Error(w, r, apperrors.Wrap(apperrors.CodeUnknown, "failed to generate token", err))
		return
	}
	respond.JSON(w, status, AuthResponse{User: user.Sanitized(), Token: token, ExpiresAt: expiresAt})
}
