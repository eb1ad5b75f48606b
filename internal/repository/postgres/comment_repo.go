package postgres

import (
	"context"

	"github.com/dom/tutorial-blog/internal/domain"
	"gorm.io/gorm"
)

type commentRepository struct {
	db        *gorm.DB
	namespace string
}

func NewCommentRepository(db *gorm.DB, namespace string) *commentRepository {
	return &commentRepository{db: db, namespace: namespace}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	comment.Namespace = r.namespace
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).
		Where("namespace = ?", r.namespace).
		First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND post_id = ?", r.namespace, postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	comment.Namespace = r.namespace
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("namespace = ? AND id = ?", r.namespace, id).
		Delete(&domain.Comment{}).Error
}
