package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub fans messages out to the clients watching a post. All topic state is
// owned by the Run goroutine.
type Hub struct {
	topics     map[uint]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	publish    chan *publication
	count      chan countRequest
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	log        *slog.Logger
	mu         sync.RWMutex
}

type publication struct {
	postID uint
	data   []byte
}

type countRequest struct {
	postID uint
	reply  chan int
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		topics:     make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan *publication, 64),
		count:      make(chan countRequest),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log.With("component", "websocket.hub"),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			h.mu.Unlock()

			for _, clients := range h.topics {
				for client := range clients {
					client.Close()
				}
			}
			h.topics = make(map[uint]map[*Client]bool)
			return

		case client := <-h.register:
			clients, ok := h.topics[client.postID]
			if !ok {
				clients = make(map[*Client]bool)
				h.topics[client.postID] = clients
			}
			clients[client] = true
			h.log.Debug("client subscribed", "post_id", client.postID, "subscribers", len(clients))

		case client := <-h.unregister:
			h.remove(client)

		case p := <-h.publish:
			for client := range h.topics[p.postID] {
				select {
				case client.send <- p.data:
				default:
					// Slow consumer; drop it rather than stall the topic.
					h.log.Warn("dropping slow client", "post_id", p.postID)
					h.remove(client)
				}
			}

		case req := <-h.count:
			req.reply <- len(h.topics[req.postID])
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.topics[client.postID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	client.Close()
	if len(clients) == 0 {
		delete(h.topics, client.postID)
	}
}

// Stop closes every client connection and blocks until Run returns.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) isStopped() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stopped
}

func (h *Hub) Register(client *Client) {
	if h.isStopped() {
		client.Close()
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	if h.isStopped() {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues msg for every client subscribed to postID. Messages
// published after Stop are discarded.
func (h *Hub) Publish(postID uint, msg *Message) {
	if h.isStopped() {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("failed to marshal message", "type", msg.Type, "error", err)
		return
	}

	select {
	case h.publish <- &publication{postID: postID, data: data}:
	case <-h.done:
	}
}

// Subscribers returns the number of clients watching postID.
func (h *Hub) Subscribers(postID uint) int {
	if h.isStopped() {
		return 0
	}
	reply := make(chan int, 1)
	select {
	case h.count <- countRequest{postID: postID, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}
