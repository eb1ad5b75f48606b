package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dom/tutorial-blog/internal/auth"
	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/dom/tutorial-blog/internal/repository"
)

// MsgSubjectAndContent is shown when a post form is incomplete.
const MsgSubjectAndContent = "subject and content, please!"

type PostService struct {
	postRepo repository.PostRepository
	limit    int
	log      *slog.Logger
}

func NewPostService(postRepo repository.PostRepository, frontPageLimit int, log *slog.Logger) *PostService {
	return &PostService{
		postRepo: postRepo,
		limit:    frontPageLimit,
		log:      log.With("component", "service.post"),
	}
}

type PostInput struct {
	Subject string
	Content string
}

func (in PostInput) Validate() *domain.ValidationError {
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Content) == "" {
		vErr := domain.NewValidationError()
		vErr.Add(domain.FieldForm, MsgSubjectAndContent)
		return vErr
	}
	return nil
}

// ListLatest returns the newest posts, newest first.
func (s *PostService) ListLatest(ctx context.Context) ([]*domain.Post, error) {
	return s.postRepo.ListLatest(ctx, s.limit)
}

func (s *PostService) Get(ctx context.Context, id uint) (*domain.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) Create(ctx context.Context, actor *domain.User, input PostInput) (*domain.Post, error) {
	if !auth.RequireLogin(actor) {
		return nil, domain.ErrAuthenticationRequired
	}
	if vErr := input.Validate(); vErr != nil {
		return nil, vErr
	}

	post := &domain.Post{
		Subject:   input.Subject,
		Content:   input.Content,
		CreatedBy: actor.Username,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.InfoContext(ctx, "post created", "post_id", post.ID, "created_by", post.CreatedBy)
	return post, nil
}

// Authorize loads the post and checks that actor owns it. The returned post
// is set even when the error is domain.ErrForbidden so callers can render it.
func (s *PostService) Authorize(ctx context.Context, actor *domain.User, id uint) (*domain.Post, error) {
	if !auth.RequireLogin(actor) {
		return nil, domain.ErrAuthenticationRequired
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CanMutate(actor, post.CreatedBy) {
		return post, domain.ErrForbidden
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, actor *domain.User, id uint, input PostInput) (*domain.Post, error) {
	post, err := s.Authorize(ctx, actor, id)
	if err != nil {
		return post, err
	}
	if vErr := input.Validate(); vErr != nil {
		return post, vErr
	}

	post.Subject = input.Subject
	post.Content = input.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.log.InfoContext(ctx, "post updated", "post_id", post.ID)
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, actor *domain.User, id uint) (*domain.Post, error) {
	post, err := s.Authorize(ctx, actor, id)
	if err != nil {
		return post, err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}

	s.log.InfoContext(ctx, "post deleted", "post_id", id, "deleted_by", actor.Username)
	return post, nil
}
