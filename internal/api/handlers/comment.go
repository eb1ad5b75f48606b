package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/dom/tutorial-blog/internal/render"
	"github.com/dom/tutorial-blog/internal/service"
	"github.com/dom/tutorial-blog/internal/websocket"
)

type CommentHandler struct {
	commentService *service.CommentService
	postService    *service.PostService
	pages          *postPages
	publisher      Publisher
}

func NewCommentHandler(services *service.Services, renderer *render.Renderer, publisher Publisher, log *slog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: services.Comment,
		postService:    services.Post,
		pages:          newPostPages(services, renderer, log.With("component", "handlers.comment")),
		publisher:      publisher,
	}
}

func (h *CommentHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	postID, ok := queryID(r, "post_id")
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	if _, err := h.postService.Get(r.Context(), postID); err != nil {
		h.pages.fail(w, r, "handlers.Comment.NewForm", err, postID, "")
		return
	}

	h.pages.render(w, r, http.StatusOK, render.PageNewComment, render.CommentFormView{
		Layout: layout(r, "New comment"),
		PostID: postID,
	})
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	postID, ok := queryID(r, "post_id")
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	content := r.FormValue("content")
	comment, err := h.commentService.Create(r.Context(), currentUser(r), postID, content)
	if err != nil {
		if vErr, ok := domain.AsValidationError(err); ok {
			h.pages.render(w, r, http.StatusOK, render.PageNewComment, render.CommentFormView{
				Layout:  layout(r, "New comment"),
				PostID:  postID,
				Content: content,
				Error:   vErr.Get(domain.FieldContent),
			})
			return
		}
		h.pages.fail(w, r, "handlers.Comment.Create", err, postID, "")
		return
	}

	publish(h.publisher, postID, websocket.MessageTypeCommentAdded, commentPayload(comment))
	http.Redirect(w, r, postURL(postID), http.StatusFound)
}

func (h *CommentHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "comment_id")
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	comment, err := h.commentService.Authorize(r.Context(), currentUser(r), id)
	if err != nil {
		h.pages.fail(w, r, "handlers.Comment.EditForm", err, postOf(comment), MsgNotCommentOwner)
		return
	}

	h.pages.render(w, r, http.StatusOK, render.PageEditComment, render.CommentFormView{
		Layout:    layout(r, "Edit comment"),
		PostID:    comment.PostID,
		CommentID: comment.ID,
		Content:   comment.Content,
	})
}

func (h *CommentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "comment_id")
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	content := r.FormValue("content")
	comment, err := h.commentService.Update(r.Context(), currentUser(r), id, content)
	if err != nil {
		if vErr, ok := domain.AsValidationError(err); ok {
			h.pages.render(w, r, http.StatusOK, render.PageEditComment, render.CommentFormView{
				Layout:    layout(r, "Edit comment"),
				PostID:    postOf(comment),
				CommentID: id,
				Content:   content,
				Error:     vErr.Get(domain.FieldContent),
			})
			return
		}
		h.pages.fail(w, r, "handlers.Comment.Edit", err, postOf(comment), MsgNotCommentOwner)
		return
	}

	publish(h.publisher, comment.PostID, websocket.MessageTypeCommentUpdated, commentPayload(comment))
	http.Redirect(w, r, postURL(comment.PostID), http.StatusFound)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "comment_id")
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	comment, err := h.commentService.Delete(r.Context(), currentUser(r), id)
	if err != nil {
		h.pages.fail(w, r, "handlers.Comment.Delete", err, postOf(comment), MsgNotCommentOwner)
		return
	}

	publish(h.publisher, comment.PostID, websocket.MessageTypeCommentDeleted, commentPayload(comment))
	http.Redirect(w, r, postURL(comment.PostID), http.StatusFound)
}

func postOf(comment *domain.Comment) uint {
	if comment == nil {
		return 0
	}
	return comment.PostID
}

func commentPayload(comment *domain.Comment) websocket.CommentPayload {
	return websocket.CommentPayload{
		PostID:    comment.PostID,
		CommentID: comment.ID,
		CreatedBy: comment.CreatedBy,
	}
}
