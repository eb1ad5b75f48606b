package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/dom/tutorial-blog/internal/service"
	"github.com/dom/tutorial-blog/internal/websocket"
	"github.com/go-chi/chi/v5"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	hub         *websocket.Hub
	postService *service.PostService
	log         *slog.Logger
}

func NewWebSocketHandler(hub *websocket.Hub, postService *service.PostService, log *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		postService: postService,
		log:         log.With("component", "handlers.websocket"),
	}
}

// Live subscribes the connection to updates for the post in the URL.
func (h *WebSocketHandler) Live(w http.ResponseWriter, r *http.Request) {
	postID, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	if _, err := h.postService.Get(r.Context(), postID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.ErrorContext(r.Context(), "failed to load post", "op", "handlers.WebSocket.Live", "post_id", postID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, postID, h.log)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
