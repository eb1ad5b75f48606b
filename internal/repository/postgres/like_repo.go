package postgres

import (
	"context"
	"time"

	"github.com/dom/tutorial-blog/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type likeRepository struct {
	db        *gorm.DB
	namespace string
}

func NewLikeRepository(db *gorm.DB, namespace string) *likeRepository {
	return &likeRepository{db: db, namespace: namespace}
}

// Toggle deletes the row if present, otherwise inserts it. Both statements
// are keyed by the unique (namespace, post_id, username) index, so racing
// toggles never leave duplicates behind.
func (r *likeRepository) Toggle(ctx context.Context, postID uint, username string) (bool, error) {
	db := r.db.WithContext(ctx)

	deleted := db.
		Where("namespace = ? AND post_id = ? AND username = ?", r.namespace, postID, username).
		Delete(&domain.Like{})
	if deleted.Error != nil {
		return false, deleted.Error
	}
	if deleted.RowsAffected > 0 {
		return false, nil
	}

	like := &domain.Like{
		Namespace: r.namespace,
		PostID:    postID,
		Username:  username,
		CreatedAt: time.Now(),
	}
	err := db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "post_id"}, {Name: "username"}},
			DoNothing: true,
		}).
		Create(like).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *likeRepository) Exists(ctx context.Context, postID uint, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("namespace = ? AND post_id = ? AND username = ?", r.namespace, postID, username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("namespace = ? AND post_id = ?", r.namespace, postID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
