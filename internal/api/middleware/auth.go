package middleware

import (
	"context"
	"net/http"

	"github.com/dom/tutorial-blog/internal/domain"
)

type contextKey string

const (
	UserKey contextKey = "user"
)

// LoginPath is where anonymous visitors are sent when a page needs a user.
const LoginPath = "/blog/login"

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// CurrentUser returns the identity resolved for this request, if any.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok && user != nil
}
