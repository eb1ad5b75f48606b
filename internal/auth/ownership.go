package auth

import "github.com/dom/tutorial-blog/internal/domain"

// RequireLogin reports whether a request carries an identity.
func RequireLogin(identity *domain.User) bool {
	return identity != nil
}

// CanMutate reports whether identity owns a resource recorded as created by
// owner.
func CanMutate(identity *domain.User, owner string) bool {
	return identity != nil && identity.Username == owner
}

// CanLike reports whether identity may like post. Owners may not like their
// own posts.
func CanLike(identity *domain.User, post *domain.Post) bool {
	if identity == nil || post == nil {
		return false
	}
	return identity.Username != post.CreatedBy
}
