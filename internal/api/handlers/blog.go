package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/dom/tutorial-blog/internal/render"
	"github.com/dom/tutorial-blog/internal/service"
	"github.com/dom/tutorial-blog/internal/websocket"
	"github.com/go-chi/chi/v5"
)

type BlogHandler struct {
	postService *service.PostService
	pages       *postPages
	publisher   Publisher
}

func NewBlogHandler(services *service.Services, renderer *render.Renderer, publisher Publisher, log *slog.Logger) *BlogHandler {
	return &BlogHandler{
		postService: services.Post,
		pages:       newPostPages(services, renderer, log.With("component", "handlers.blog")),
		publisher:   publisher,
	}
}

func (h *BlogHandler) Front(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListLatest(r.Context())
	if err != nil {
		h.pages.serverError(w, r, "handlers.Blog.Front", err)
		return
	}

	h.pages.render(w, r, http.StatusOK, render.PageFront, render.FrontView{
		Layout: layout(r, ""),
		Posts:  posts,
	})
}

func (h *BlogHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.pages.notFound(w, r)
		return
	}
	h.pages.show(w, r, id, "")
}

func (h *BlogHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.pages.notFound(w, r)
}

func (h *BlogHandler) NewPostForm(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusOK, render.PageNewPost, render.PostFormView{Layout: layout(r, "New post")})
}

func (h *BlogHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	input := service.PostInput{
		Subject: r.FormValue("subject"),
		Content: r.FormValue("content"),
	}

	post, err := h.postService.Create(r.Context(), currentUser(r), input)
	if err != nil {
		if vErr, ok := domain.AsValidationError(err); ok {
			h.pages.render(w, r, http.StatusOK, render.PageNewPost, render.PostFormView{
				Layout:  layout(r, "New post"),
				Subject: input.Subject,
				Content: input.Content,
				Error:   vErr.Get(domain.FieldForm),
			})
			return
		}
		h.pages.fail(w, r, "handlers.Blog.NewPost", err, 0, "")
		return
	}

	http.Redirect(w, r, postURL(post.ID), http.StatusFound)
}

func (h *BlogHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "post_id")
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	post, err := h.postService.Authorize(r.Context(), currentUser(r), id)
	if err != nil {
		h.pages.fail(w, r, "handlers.Blog.EditForm", err, id, MsgNotPostOwner)
		return
	}

	h.pages.render(w, r, http.StatusOK, render.PageEditPost, render.PostFormView{
		Layout:  layout(r, "Edit post"),
		PostID:  post.ID,
		Subject: post.Subject,
		Content: post.Content,
	})
}

func (h *BlogHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "post_id")
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	input := service.PostInput{
		Subject: r.FormValue("subject"),
		Content: r.FormValue("content"),
	}

	post, err := h.postService.Update(r.Context(), currentUser(r), id, input)
	if err != nil {
		if vErr, ok := domain.AsValidationError(err); ok {
			h.pages.render(w, r, http.StatusOK, render.PageEditPost, render.PostFormView{
				Layout:  layout(r, "Edit post"),
				PostID:  id,
				Subject: input.Subject,
				Content: input.Content,
				Error:   vErr.Get(domain.FieldForm),
			})
			return
		}
		h.pages.fail(w, r, "handlers.Blog.Edit", err, id, MsgNotPostOwner)
		return
	}

	publish(h.publisher, post.ID, websocket.MessageTypePostUpdated, websocket.PostPayload{PostID: post.ID})
	http.Redirect(w, r, postURL(post.ID), http.StatusFound)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "post_id")
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	if _, err := h.postService.Delete(r.Context(), currentUser(r), id); err != nil {
		h.pages.fail(w, r, "handlers.Blog.Delete", err, id, MsgNotPostOwner)
		return
	}

	publish(h.publisher, id, websocket.MessageTypePostDeleted, websocket.PostPayload{PostID: id})
	http.Redirect(w, r, "/blog", http.StatusFound)
}
