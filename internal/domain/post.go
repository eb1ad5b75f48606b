package domain

import "time"

// DefaultNamespace is the partition used when none is configured.
const DefaultNamespace = "default"

// Post is a blog entry. CreatedBy holds the owner's username; usernames are
// immutable so the reference never goes stale.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Namespace string    `json:"-" gorm:"not null;default:'default';index"`
	Subject   string    `json:"subject" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedBy string    `json:"createdBy" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// Comment belongs to a post by value; the reference is not enforced by the
// store.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Namespace string    `json:"-" gorm:"not null;default:'default';index"`
	PostID    uint      `json:"postId" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedBy string    `json:"createdBy" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

// Like marks that Username likes PostID. At most one row exists per
// (namespace, post, username).
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Namespace string    `json:"-" gorm:"not null;default:'default';uniqueIndex:idx_likes_post_user"`
	PostID    uint      `json:"postId" gorm:"not null;uniqueIndex:idx_likes_post_user"`
	Username  string    `json:"username" gorm:"not null;uniqueIndex:idx_likes_post_user"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the table name for GORM
func (Like) TableName() string {
	return "likes"
}
