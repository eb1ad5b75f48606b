package api

import (
	"log/slog"
	"net/http"

	"github.com/dom/tutorial-blog/internal/api/handlers"
	"github.com/dom/tutorial-blog/internal/api/middleware"
	"github.com/dom/tutorial-blog/internal/render"
	"github.com/dom/tutorial-blog/internal/service"
	"github.com/dom/tutorial-blog/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, sessions *middleware.SessionManager, renderer *render.Renderer, hub *websocket.Hub, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log.With("component", "http")))
	r.Use(chiMiddleware.Recoverer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, sessions, renderer, log)
	blogHandler := handlers.NewBlogHandler(services, renderer, hub, log)
	commentHandler := handlers.NewCommentHandler(services, renderer, hub, log)
	likeHandler := handlers.NewLikeHandler(services, renderer, hub, log)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Post, log)

	r.NotFound(sessions.Middleware(http.HandlerFunc(blogHandler.NotFound)).ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Get("/", blogHandler.Front)

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", blogHandler.Front)

			// Public routes
			r.Get("/signup", authHandler.SignupForm)
			r.Post("/signup", authHandler.Signup)
			r.Get("/login", authHandler.LoginForm)
			r.Post("/login", authHandler.Login)
			r.Get("/logout", authHandler.Logout)
			r.Get("/welcome", authHandler.Welcome)
			r.Get("/{id:[0-9]+}", blogHandler.Show)
			r.Get("/{id:[0-9]+}/live", wsHandler.Live)

			// Routes that need a logged in user
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireLogin)

				r.Get("/newpost", blogHandler.NewPostForm)
				r.Post("/newpost", blogHandler.NewPost)
				r.Get("/edit", blogHandler.EditForm)
				r.Post("/edit", blogHandler.Edit)
				r.Get("/delete", blogHandler.Delete)
				r.Get("/like", likeHandler.Toggle)
				r.Get("/newcomment", commentHandler.NewForm)
				r.Post("/newcomment", commentHandler.Create)
				r.Get("/comment/edit", commentHandler.EditForm)
				r.Post("/comment/edit", commentHandler.Edit)
				r.Get("/comment/delete", commentHandler.Delete)
			})
		})
	})

	return r
}
