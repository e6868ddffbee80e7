package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

type AuthMiddleware struct {
	tokens ports.AccessTokenParser
	log    logrus.FieldLogger
}

func NewAuthMiddleware(tokens ports.AccessTokenParser, log logrus.FieldLogger) *AuthMiddleware {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthMiddleware{
		tokens: tokens,
		log:    log,
	}
}

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFrom returns the caller stored by the auth middleware.
func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// WithPrincipal stores the caller in ctx.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Authenticated only requires a valid access credential.
func (m *AuthMiddleware) Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	}
}

// RequireRole lets the request through only when the caller's role is exactly
// required.
func (m *AuthMiddleware) RequireRole(required domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.authenticate(w, r)
		if !ok {
			return
		}

		if !domain.Authorize(principal.Role, required) {
			m.log.WithFields(logrus.Fields{
				"user_id":  principal.UserID,
				"role":     principal.Role,
				"required": required,
				"path":     r.URL.Path,
			}).Info("role mismatch")
			writeError(w, http.StatusForbidden, "you do not have permission to perform this action")
			return
		}

		next(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	}
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
		return domain.Principal{}, false
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		writeError(w, http.StatusUnauthorized, "invalid authorization header")
		return domain.Principal{}, false
	}

	principal, err := m.tokens.ParseAccess(parts[1])
	if err != nil {
		m.log.WithError(err).Debug("access token rejected")
		writeError(w, http.StatusUnauthorized, domain.ErrInvalidAccessToken.Reason)
		return domain.Principal{}, false
	}
	return *principal, true
}

func writeError(w http.ResponseWriter, status int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": reason})
}
