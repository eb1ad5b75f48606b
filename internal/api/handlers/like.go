package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dom/tutorial-blog/internal/render"
	"github.com/dom/tutorial-blog/internal/service"
	"github.com/dom/tutorial-blog/internal/websocket"
)

type LikeHandler struct {
	likeService *service.LikeService
	pages       *postPages
	publisher   Publisher
}

func NewLikeHandler(services *service.Services, renderer *render.Renderer, publisher Publisher, log *slog.Logger) *LikeHandler {
	return &LikeHandler{
		likeService: services.Like,
		pages:       newPostPages(services, renderer, log.With("component", "handlers.like")),
		publisher:   publisher,
	}
}

// Toggle likes or unlikes the post and returns to it.
func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	postID, ok := queryID(r, "post_id")
	if !ok {
		h.pages.notFound(w, r)
		return
	}

	if _, err := h.likeService.Toggle(r.Context(), currentUser(r), postID); err != nil {
		h.pages.fail(w, r, "handlers.Like.Toggle", err, postID, MsgSelfLike)
		return
	}

	count, err := h.likeService.Count(r.Context(), postID)
	if err != nil {
		h.pages.log.WarnContext(r.Context(), "failed to count likes for live update", "post_id", postID, "error", err)
	} else {
		publish(h.publisher, postID, websocket.MessageTypeLikesChanged, websocket.LikesChangedPayload{PostID: postID, Likes: count})
	}

	http.Redirect(w, r, postURL(postID), http.StatusFound)
}
