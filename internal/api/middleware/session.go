package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/showtrack/internal/sessions"
	"github.com/sirupsen/logrus"
)

// CookieName is the cookie carrying the opaque session id
const CookieName = "showtrack.sid"

// ErrUnauthenticated is returned when a request carries no usable session
var ErrUnauthenticated = errors.New("not authenticated")

type contextKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user id
func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the authenticated user id stored by the session gate
func UserID(ctx context.Context) (uint64, bool) {
	userID, ok := ctx.Value(contextKey{}).(uint64)
	return userID, ok
}

// SessionGate binds requests to server-side sessions
type SessionGate struct {
	store  sessions.Store
	ttl    time.Duration
	secure bool
	logger *logrus.Logger
}

// NewSessionGate creates a gate over store. secure marks the cookie Secure.
func NewSessionGate(store sessions.Store, ttl time.Duration, secure bool, logger *logrus.Logger) *SessionGate {
	return &SessionGate{
		store:  store,
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

// Require rejects requests without a valid session with 401 and otherwise
// passes the user id on through the request context
func (g *SessionGate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := g.Authenticate(r)
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				g.logger.WithError(err).Error("Session lookup failed")
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Not authenticated"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// Authenticate resolves the session cookie to a user id
func (g *SessionGate) Authenticate(r *http.Request) (uint64, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return 0, ErrUnauthenticated
	}
	userID, err := g.store.Get(r.Context(), cookie.Value)
	if errors.Is(err, sessions.ErrNoSession) {
		return 0, ErrUnauthenticated
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load session: %w", err)
	}
	return userID, nil
}

// Start opens a session for userID and sets the cookie. A session already
// presented by the client is dropped first.
func (g *SessionGate) Start(w http.ResponseWriter, r *http.Request, userID uint64) error {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := g.store.Destroy(r.Context(), cookie.Value); err != nil {
			g.logger.WithError(err).Warn("Failed to drop previous session")
		}
	}

	id, err := g.store.Create(r.Context(), userID)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(g.ttl.Seconds()),
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// End destroys the presented session and clears the cookie
func (g *SessionGate) End(w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := g.store.Destroy(r.Context(), cookie.Value); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
