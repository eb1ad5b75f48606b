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

// MsgCommentContent is shown when a comment form is empty.
const MsgCommentContent = "comment content, please!"

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	log         *slog.Logger
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, log *slog.Logger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		log:         log.With("component", "service.comment"),
	}
}

func validateComment(content string) *domain.ValidationError {
	if strings.TrimSpace(content) == "" {
		vErr := domain.NewValidationError()
		vErr.Add(domain.FieldContent, MsgCommentContent)
		return vErr
	}
	return nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]*domain.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) Get(ctx context.Context, id uint) (*domain.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// Create adds a comment to an existing post.
func (s *CommentService) Create(ctx context.Context, actor *domain.User, postID uint, content string) (*domain.Comment, error) {
	if !auth.RequireLogin(actor) {
		return nil, domain.ErrAuthenticationRequired
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if vErr := validateComment(content); vErr != nil {
		return nil, vErr
	}

	comment := &domain.Comment{
		PostID:    postID,
		Content:   content,
		CreatedBy: actor.Username,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.InfoContext(ctx, "comment created", "comment_id", comment.ID, "post_id", postID, "created_by", actor.Username)
	return comment, nil
}

// Authorize loads the comment and checks that actor owns it. The comment is
// returned alongside domain.ErrForbidden.
func (s *CommentService) Authorize(ctx context.Context, actor *domain.User, id uint) (*domain.Comment, error) {
	if !auth.RequireLogin(actor) {
		return nil, domain.ErrAuthenticationRequired
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CanMutate(actor, comment.CreatedBy) {
		return comment, domain.ErrForbidden
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, actor *domain.User, id uint, content string) (*domain.Comment, error) {
	comment, err := s.Authorize(ctx, actor, id)
	if err != nil {
		return comment, err
	}
	if vErr := validateComment(content); vErr != nil {
		return comment, vErr
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	s.log.InfoContext(ctx, "comment updated", "comment_id", comment.ID)
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, actor *domain.User, id uint) (*domain.Comment, error) {
	comment, err := s.Authorize(ctx, actor, id)
	if err != nil {
		return comment, err
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete comment: %w", err)
	}

	s.log.InfoContext(ctx, "comment deleted", "comment_id", id, "deleted_by", actor.Username)
	return comment, nil
}
