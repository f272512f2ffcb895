package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/repository"
)

// The identity provider authenticates out of band; authenticated routes
// carry the provisioned user id in this header and the session middleware
// resolves it into a context user.
const UserIDHeader = "X-User-ID"

type contextKey string

const userContextKey contextKey = "session_user"

// Session resolves the caller's profile and injects it into the request
// context. Routes behind it can assume CurrentUser returns non-nil.
type Session struct {
	userRepo repository.UserRepository
}

func NewSession(userRepo repository.UserRepository) *Session {
	return &Session{userRepo: userRepo}
}

func (s *Session) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "missing "+UserIDHeader+" header")
			return
		}

		user, err := s.userRepo.GetByID(r.Context(), userID)
		if err != nil {
			writeAuthError(w, http.StatusInternalServerError, "internal_error", "failed to resolve session")
			return
		}
		if user == nil {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates a route behind the admin role. Must be mounted
// inside Session.Handler.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		if user == nil || user.Role != models.RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the session user, or nil outside an authenticated
// route.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// WithUser returns a context carrying the given user. Test helper and
// internal fan-out use.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
