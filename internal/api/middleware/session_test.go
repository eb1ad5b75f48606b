package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/tutorial-blog/internal/api/middleware"
	"github.com/dom/tutorial-blog/internal/auth"
	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	users map[uuid.UUID]*domain.User
	err   error
}

func (f *fakeResolver) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// whoAmI echoes the resolved username, or "anonymous".
var whoAmI = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.CurrentUser(r.Context()); ok {
		w.Write([]byte(user.Username))
		return
	}
	w.Write([]byte("anonymous"))
})

func TestSessionManager_Middleware(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Username: "alice"}
	codec := auth.NewCookieCodec(testSecret)
	otherCodec := auth.NewCookieCodec([]byte("ffffffffffffffffffffffffffffffff"))

	tests := []struct {
		name       string
		cookie     *http.Cookie
		resolver   *fakeResolver
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no cookie",
			resolver:   &fakeResolver{},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "valid session",
			cookie:     &http.Cookie{Name: middleware.SessionCookie, Value: codec.Encode(alice.ID.String())},
			resolver:   &fakeResolver{users: map[uuid.UUID]*domain.User{alice.ID: alice}},
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "signed with another secret",
			cookie:     &http.Cookie{Name: middleware.SessionCookie, Value: otherCodec.Encode(alice.ID.String())},
			resolver:   &fakeResolver{users: map[uuid.UUID]*domain.User{alice.ID: alice}},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "unsigned id",
			cookie:     &http.Cookie{Name: middleware.SessionCookie, Value: alice.ID.String()},
			resolver:   &fakeResolver{users: map[uuid.UUID]*domain.User{alice.ID: alice}},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "signed value is not a uuid",
			cookie:     &http.Cookie{Name: middleware.SessionCookie, Value: codec.Encode("alice")},
			resolver:   &fakeResolver{},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "user no longer exists",
			cookie:     &http.Cookie{Name: middleware.SessionCookie, Value: codec.Encode(uuid.NewString())},
			resolver:   &fakeResolver{},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "empty cookie after logout",
			cookie:     &http.Cookie{Name: middleware.SessionCookie, Value: ""},
			resolver:   &fakeResolver{},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "store unavailable",
			cookie:     &http.Cookie{Name: middleware.SessionCookie, Value: codec.Encode(alice.ID.String())},
			resolver:   &fakeResolver{err: errors.New("connection refused")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := middleware.NewSessionManager(codec, tt.resolver, discardLogger())
			handler := sessions.Middleware(whoAmI)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSessionManager_LoginLogout(t *testing.T) {
	codec := auth.NewCookieCodec(testSecret)
	sessions := middleware.NewSessionManager(codec, &fakeResolver{}, discardLogger())
	user := &domain.User{ID: uuid.New(), Username: "alice"}

	rec := httptest.NewRecorder()
	sessions.Login(rec, user)

	cookie := findCookie(t, rec, middleware.SessionCookie)
	assert.Equal(t, "/", cookie.Path)
	assert.Zero(t, cookie.MaxAge)
	assert.True(t, cookie.Expires.IsZero(), "session cookie must not expire")

	value, ok := codec.Decode(cookie.Value)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), value)

	rec = httptest.NewRecorder()
	sessions.Logout(rec)

	cookie = findCookie(t, rec, middleware.SessionCookie)
	assert.Equal(t, "/", cookie.Path)
	assert.Empty(t, cookie.Value)
}

func TestSessionManager_Welcome(t *testing.T) {
	codec := auth.NewCookieCodec(testSecret)
	sessions := middleware.NewSessionManager(codec, &fakeResolver{}, discardLogger())

	rec := httptest.NewRecorder()
	sessions.SetWelcome(rec, "alice")
	welcome := findCookie(t, rec, middleware.WelcomeCookie)

	req := httptest.NewRequest(http.MethodGet, "/blog/welcome", nil)
	req.AddCookie(welcome)
	rec = httptest.NewRecorder()

	username, ok := sessions.TakeWelcome(rec, req)
	require.True(t, ok)
	assert.Equal(t, "alice", username)
	assert.Empty(t, findCookie(t, rec, middleware.WelcomeCookie).Value, "welcome cookie is consumed")

	t.Run("tampered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/blog/welcome", nil)
		req.AddCookie(&http.Cookie{Name: middleware.WelcomeCookie, Value: "mallory|00"})

		_, ok := sessions.TakeWelcome(httptest.NewRecorder(), req)
		assert.False(t, ok)
	})

	t.Run("absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/blog/welcome", nil)

		_, ok := sessions.TakeWelcome(httptest.NewRecorder(), req)
		assert.False(t, ok)
	})
}

func TestRequireLogin(t *testing.T) {
	handler := middleware.RequireLogin(whoAmI)

	t.Run("anonymous is redirected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/newpost", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))
	})

	t.Run("logged in passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/blog/newpost", nil)
		req = req.WithContext(middleware.WithUser(req.Context(), &domain.User{Username: "bob"}))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "bob", rec.Body.String())
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blog/404", nil))

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"uri":"/blog/404"`)
}
