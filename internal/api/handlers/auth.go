package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dom/tutorial-blog/internal/api/middleware"
	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/dom/tutorial-blog/internal/render"
	"github.com/dom/tutorial-blog/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	sessions    *middleware.SessionManager
	pages       *pages
}

func NewAuthHandler(authService *service.AuthService, sessions *middleware.SessionManager, renderer *render.Renderer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		pages:       newPages(renderer, log.With("component", "handlers.auth")),
	}
}

func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, render.PageSignup, render.SignupView{Layout: layout(r, "Signup")})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	input := service.RegisterInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		Verify:   r.FormValue("verify"),
		Email:    r.FormValue("email"),
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		if vErr, ok := domain.AsValidationError(err); ok {
			h.pages.render(w, r, http.StatusOK, render.PageSignup, render.SignupView{
				Layout:   layout(r, "Signup"),
				Username: input.Username,
				Email:    input.Email,
				Errors:   vErr,
			})
			return
		}
		h.pages.serverError(w, r, "handlers.Auth.Signup", err)
		return
	}

	h.sessions.Login(w, user)
	h.sessions.SetWelcome(w, user.Username)
	http.Redirect(w, r, "/blog/welcome", http.StatusFound)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, render.PageLogin, render.LoginView{Layout: layout(r, "Login")})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")

	user, err := h.authService.Authenticate(r.Context(), username, r.FormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.pages.render(w, r, http.StatusOK, render.PageLogin, render.LoginView{
				Layout:   layout(r, "Login"),
				Username: username,
				Error:    service.MsgInvalidLogin,
			})
			return
		}
		h.pages.serverError(w, r, "handlers.Auth.Login", err)
		return
	}

	h.sessions.Login(w, user)
	http.Redirect(w, r, "/blog/welcome", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(w)
	http.Redirect(w, r, "/blog", http.StatusFound)
}

// Welcome greets the logged in user, or the user who just signed up.
// Anyone else is sent to the signup page.
func (h *AuthHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	username, ok := h.sessions.TakeWelcome(w, r)
	if user := currentUser(r); user != nil {
		username, ok = user.Username, true
	}
	if !ok {
		http.Redirect(w, r, "/blog/signup", http.StatusFound)
		return
	}

	h.pages.render(w, r, http.StatusOK, render.PageWelcome, render.WelcomeView{
		Layout:   layout(r, "Welcome"),
		Username: username,
	})
}
