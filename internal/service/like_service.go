package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dom/tutorial-blog/internal/auth"
	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/dom/tutorial-blog/internal/repository"
)

type LikeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
	log      *slog.Logger
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository, log *slog.Logger) *LikeService {
	return &LikeService{
		likeRepo: likeRepo,
		postRepo: postRepo,
		log:      log.With("component", "service.like"),
	}
}

// Toggle likes the post if actor has not liked it yet, otherwise removes the
// like. It reports whether the post is liked afterwards.
func (s *LikeService) Toggle(ctx context.Context, actor *domain.User, postID uint) (bool, error) {
	if !auth.RequireLogin(actor) {
		return false, domain.ErrAuthenticationRequired
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}
	if !auth.CanLike(actor, post) {
		return false, domain.ErrSelfLike
	}

	liked, err := s.likeRepo.Toggle(ctx, postID, actor.Username)
	if err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}

	s.log.DebugContext(ctx, "like toggled", "post_id", postID, "username", actor.Username, "liked", liked)
	return liked, nil
}

func (s *LikeService) Count(ctx context.Context, postID uint) (int64, error) {
	return s.likeRepo.CountByPost(ctx, postID)
}

// HasLiked is false for anonymous viewers.
func (s *LikeService) HasLiked(ctx context.Context, actor *domain.User, postID uint) (bool, error) {
	if actor == nil {
		return false, nil
	}
	return s.likeRepo.Exists(ctx, postID, actor.Username)
}
