package postgres

import (
	"context"

	"github.com/dom/tutorial-blog/internal/domain"
	"gorm.io/gorm"
)

type postRepository struct {
	db        *gorm.DB
	namespace string
}

func NewPostRepository(db *gorm.DB, namespace string) *postRepository {
	return &postRepository{db: db, namespace: namespace}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	post.Namespace = r.namespace
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).
		Where("namespace = ?", r.namespace).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &post, nil
}

func (r *postRepository) ListLatest(ctx context.Context, limit int) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := r.db.WithContext(ctx).
		Where("namespace = ?", r.namespace).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	post.Namespace = r.namespace
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("namespace = ? AND post_id = ?", r.namespace, id).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("namespace = ? AND post_id = ?", r.namespace, id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("namespace = ? AND id = ?", r.namespace, id).Delete(&domain.Post{}).Error
	})
}
