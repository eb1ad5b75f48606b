package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dom/tutorial-blog/internal/api/middleware"
	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/dom/tutorial-blog/internal/render"
	"github.com/dom/tutorial-blog/internal/service"
	"github.com/dom/tutorial-blog/internal/websocket"
)

// Inline messages shown on the post page when an action is refused.
const (
	MsgNotPostOwner    = "You can only edit or delete your own posts."
	MsgNotCommentOwner = "You can only edit or delete your own comments."
	MsgSelfLike        = "You can't like your own post."
	MsgServerError     = "The server could not complete your request. Please try again later."
)

// Publisher delivers live updates to browsers watching a post.
type Publisher interface {
	Publish(postID uint, msg *websocket.Message)
}

// pages renders templates and the shared error pages.
type pages struct {
	renderer *render.Renderer
	log      *slog.Logger
}

func newPages(renderer *render.Renderer, log *slog.Logger) *pages {
	return &pages{renderer: renderer, log: log}
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := p.renderer.Render(w, status, page, data); err != nil {
		p.serverError(w, r, "handlers.render."+page, err)
	}
}

func (p *pages) notFound(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusNotFound, render.PageNotFound, layout(r, "Not found"))
}

func (p *pages) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	p.log.ErrorContext(r.Context(), "request failed", "op", op, "error", err)

	view := render.ErrorView{Layout: layout(r, "Error"), Message: MsgServerError}
	if err := p.renderer.Render(w, http.StatusInternalServerError, render.PageError, view); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func layout(r *http.Request, title string) render.Layout {
	user, _ := middleware.CurrentUser(r.Context())
	return render.Layout{User: user, Title: title}
}

func currentUser(r *http.Request) *domain.User {
	user, _ := middleware.CurrentUser(r.Context())
	return user
}

// queryID reads a positive numeric id from the query string.
func queryID(r *http.Request, key string) (uint, bool) {
	return parseID(r.URL.Query().Get(key))
}

// parseID accepts ids that fit the signed bigint id columns.
func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 63)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func postURL(id uint) string {
	return fmt.Sprintf("/blog/%d", id)
}

// postPages draws the permalink page, which is also where refused post,
// comment and like actions land with an inline error.
type postPages struct {
	*pages
	posts    *service.PostService
	comments *service.CommentService
	likes    *service.LikeService
}

func newPostPages(services *service.Services, renderer *render.Renderer, log *slog.Logger) *postPages {
	return &postPages{
		pages:    newPages(renderer, log),
		posts:    services.Post,
		comments: services.Comment,
		likes:    services.Like,
	}
}

func (p *postPages) show(w http.ResponseWriter, r *http.Request, postID uint, errMsg string) {
	user := currentUser(r)

	post, err := p.posts.Get(r.Context(), postID)
	if errors.Is(err, domain.ErrNotFound) {
		p.notFound(w, r)
		return
	}
	if err != nil {
		p.serverError(w, r, "handlers.postPages.show", err)
		return
	}

	comments, err := p.comments.ListByPost(r.Context(), postID)
	if err != nil {
		p.serverError(w, r, "handlers.postPages.show", err)
		return
	}

	likes, err := p.likes.Count(r.Context(), postID)
	if err != nil {
		p.serverError(w, r, "handlers.postPages.show", err)
		return
	}

	liked, err := p.likes.HasLiked(r.Context(), user, postID)
	if err != nil {
		p.serverError(w, r, "handlers.postPages.show", err)
		return
	}

	p.render(w, r, http.StatusOK, render.PagePermalink, render.PostView{
		Layout:   layout(r, post.Subject),
		Post:     post,
		Comments: comments,
		Likes:    likes,
		Liked:    liked,
		Error:    errMsg,
	})
}

// fail maps a service error to a response. Refused actions re-render the
// post identified by postID with forbiddenMsg.
func (p *postPages) fail(w http.ResponseWriter, r *http.Request, op string, err error, postID uint, forbiddenMsg string) {
	switch {
	case errors.Is(err, domain.ErrAuthenticationRequired):
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
	case errors.Is(err, domain.ErrNotFound):
		p.notFound(w, r)
	case errors.Is(err, domain.ErrSelfLike):
		p.show(w, r, postID, MsgSelfLike)
	case errors.Is(err, domain.ErrForbidden):
		p.log.InfoContext(r.Context(), "action refused", "op", op, "post_id", postID)
		p.show(w, r, postID, forbiddenMsg)
	default:
		p.serverError(w, r, op, err)
	}
}

func publish(pub Publisher, postID uint, msgType websocket.MessageType, payload any) {
	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		return
	}
	pub.Publish(postID, msg)
}
