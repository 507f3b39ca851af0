package auth

import (
	"net/http"
	"strings"

	"github.com/isdelr/taskmanager-be/internal/api/respond"
	apperrors "github.com/isdelr/taskmanager-be/internal/errors"
	"github.com/rs/zerolog/log"
)

// TokenVerifier resolves a bearer token to an identity.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// Middleware rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond.Error(w, r, apperrors.New(apperrors.CodeAuthenticationFailed, "missing auth token"))
				return
			}

			tokenStr, ok := bearerToken(authHeader)
			if !ok {
				respond.Error(w, r, apperrors.New(apperrors.CodeAuthenticationFailed, "malformed authorization header"))
				return
			}

			identity, err := verifier.Verify(tokenStr)
			if err != nil {
				message := "invalid auth token"
				if apperrors.CodeOf(err) == apperrors.CodeTokenExpired {
					message = "auth token expired"
				}
				respond.Error(w, r, apperrors.Wrap(apperrors.CodeAuthenticationFailed, message, err))
				return
			}

			log.Debug().Str("user_id", identity.UserID).Msg("Authenticated request")
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
