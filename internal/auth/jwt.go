package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/isdelr/taskmanager-be/internal/errors"
	"github.com/isdelr/taskmanager-be/internal/models"
)

// TokenLifetime is how long an issued token stays valid. There is no refresh
// flow; clients log in again once it elapses.
const TokenLifetime = 7 * 24 * time.Hour

var (
	// ErrTokenInvalid indicates a malformed token or one not signed with the current secret.
	ErrTokenInvalid = apperrors.New(apperrors.CodeTokenInvalid, "invalid auth token")
	// ErrTokenExpired indicates a correctly signed token whose expiry has passed.
	ErrTokenExpired = apperrors.New(apperrors.CodeTokenExpired, "auth token expired")
)

// Claims defines the JWT claims structure.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller resolved from a verified token.
type Identity struct {
	UserID   string
	Username string
}

// TokenService issues and verifies HS256 identity tokens.
type TokenService struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenService creates a TokenService signing with secret. A nil clock
// defaults to time.Now.
func NewTokenService(secret string, lifetime time.Duration, now func() time.Time) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	if lifetime <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{key: []byte(secret), lifetime: lifetime, now: now}, nil
}

// Issue creates a signed token for user and returns it with its expiry.
func (s *TokenService) Issue(user models.User) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.lifetime)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify parses and validates a token string. Expired tokens yield
// ErrTokenExpired; every other failure yields ErrTokenInvalid.
func (s *TokenService) Verify(tokenStr string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperrors.Wrap(apperrors.CodeTokenExpired, ErrTokenExpired.Message, err)
		}
		return Identity{}, apperrors.Wrap(apperrors.CodeTokenInvalid, ErrTokenInvalid.Message, err)
	}
	if !token.Valid || claims.UserID == "" || claims.Subject != claims.UserID {
		return Identity{}, ErrTokenInvalid
	}
	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
