package repository

import (
	"context"

	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/google/uuid"
)

// Lookups return domain.ErrNotFound when no row matches. Create returns
// domain.ErrUsernameTaken when the unique username index rejects the row.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uint) (*domain.Post, error)
	ListLatest(ctx context.Context, limit int) ([]*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	// Delete removes the post together with its comments and likes.
	Delete(ctx context.Context, id uint) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uint) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uint) error
}

type LikeRepository interface {
	// Toggle flips the presence of the (postID, username) row and reports
	// whether it is present afterwards.
	Toggle(ctx context.Context, postID uint, username string) (bool, error)
	Exists(ctx context.Context, postID uint, username string) (bool, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
}

type Repositories struct {
	User    UserRepository
	Post    PostRepository
	Comment CommentRepository
	Like    LikeRepository
}
