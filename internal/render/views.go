package render

import "github.com/dom/tutorial-blog/internal/domain"

// Page names, one per template under templates/.
const (
	PageFront       = "front"
	PageSignup      = "signup"
	PageLogin       = "login"
	PageWelcome     = "welcome"
	PagePermalink   = "permalink"
	PageNewPost     = "newpost"
	PageEditPost    = "editpost"
	PageNewComment  = "newcomment"
	PageEditComment = "editcomment"
	PageNotFound    = "notfound"
	PageError       = "error"
)

// Layout is embedded in every view and drives the shared header.
type Layout struct {
	User  *domain.User
	Title string
}

type FrontView struct {
	Layout
	Posts []*domain.Post
}

type SignupView struct {
	Layout
	Username string
	Email    string
	Errors   *domain.ValidationError
}

type LoginView struct {
	Layout
	Username string
	Error    string
}

type WelcomeView struct {
	Layout
	Username string
}

type PostView struct {
	Layout
	Post     *domain.Post
	Comments []*domain.Comment
	Likes    int64
	Liked    bool
	Error    string
}

// CommentItem is what the comment partial sees: the comment and the viewer.
type CommentItem struct {
	User    *domain.User
	Comment *domain.Comment
}

// PostFormView backs both the new post and edit post pages.
type PostFormView struct {
	Layout
	PostID  uint
	Subject string
	Content string
	Error   string
}

// CommentFormView backs both the new comment and edit comment pages.
type CommentFormView struct {
	Layout
	PostID    uint
	CommentID uint
	Content   string
	Error     string
}

type ErrorView struct {
	Layout
	Message string
}
