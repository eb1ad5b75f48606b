package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dom/tutorial-blog/internal/auth"
	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/google/uuid"
)

const (
	SessionCookie = "user_id"
	WelcomeCookie = "welcome"
)

// UserResolver looks up the identity behind a session cookie.
type UserResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// SessionManager reads and writes the signed session cookies.
type SessionManager struct {
	codec *auth.CookieCodec
	users UserResolver
	log   *slog.Logger
}

func NewSessionManager(codec *auth.CookieCodec, users UserResolver, log *slog.Logger) *SessionManager {
	return &SessionManager{
		codec: codec,
		users: users,
		log:   log.With("component", "middleware.session"),
	}
}

// Middleware resolves the session cookie into a user stored in the request
// context. Missing, tampered or stale cookies leave the request anonymous.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolve(r)
		if err != nil {
			m.log.ErrorContext(r.Context(), "failed to resolve session", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if user != nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *SessionManager) resolve(r *http.Request) (*domain.User, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	value, ok := m.codec.Decode(cookie.Value)
	if !ok {
		m.log.DebugContext(r.Context(), "rejected session cookie with bad signature")
		return nil, nil
	}

	id, err := uuid.Parse(value)
	if err != nil {
		m.log.DebugContext(r.Context(), "rejected session cookie with malformed id")
		return nil, nil
	}

	user, err := m.users.FindByID(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login starts a session for user.
func (m *SessionManager) Login(w http.ResponseWriter, user *domain.User) {
	m.set(w, SessionCookie, m.codec.Encode(user.ID.String()))
}

// Logout clears the session cookie.
func (m *SessionManager) Logout(w http.ResponseWriter) {
	m.set(w, SessionCookie, "")
}

// SetWelcome remembers username for the greeting shown after sign-up.
func (m *SessionManager) SetWelcome(w http.ResponseWriter, username string) {
	m.set(w, WelcomeCookie, m.codec.Encode(username))
}

// TakeWelcome returns the username stored by SetWelcome and clears the
// cookie.
func (m *SessionManager) TakeWelcome(w http.ResponseWriter, r *http.Request) (string, bool) {
	cookie, err := r.Cookie(WelcomeCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	m.set(w, WelcomeCookie, "")
	return m.codec.Decode(cookie.Value)
}

func (m *SessionManager) set(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
