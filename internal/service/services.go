package service

import (
	"log/slog"

	"github.com/dom/tutorial-blog/internal/auth"
	"github.com/dom/tutorial-blog/internal/config"
	"github.com/dom/tutorial-blog/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Post    *PostService
	Comment *CommentService
	Like    *LikeService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log *slog.Logger) *Services {
	hasher := auth.NewPasswordHasher(cfg.PasswordScheme)

	return &Services{
		Auth:    NewAuthService(repos.User, hasher, log),
		Post:    NewPostService(repos.Post, cfg.FrontPageLimit, log),
		Comment: NewCommentService(repos.Comment, repos.Post, log),
		Like:    NewLikeService(repos.Like, repos.Post, log),
	}
}
