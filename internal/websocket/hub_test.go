package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newLiveServer serves /{postID} and subscribes each connection to hub.
func newLiveServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(strings.TrimPrefix(r.URL.Path, "/"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, uint(id), testLogger())
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, postID uint) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + strconv.FormatUint(uint64(postID), 10)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return &msg
}

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(testLogger())
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func TestHub_PublishReachesSubscribersOfPost(t *testing.T) {
	hub := startHub(t)
	srv := newLiveServer(t, hub)

	watcher := dial(t, srv, 1)
	other := dial(t, srv, 2)

	require.Eventually(t, func() bool {
		return hub.Subscribers(1) == 1 && hub.Subscribers(2) == 1
	}, 2*time.Second, 10*time.Millisecond)

	msg, err := NewMessage(MessageTypeLikesChanged, LikesChangedPayload{PostID: 1, Likes: 3})
	require.NoError(t, err)
	hub.Publish(1, msg)

	got := readMessage(t, watcher)
	assert.Equal(t, MessageTypeLikesChanged, got.Type)

	var payload LikesChangedPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, uint(1), payload.PostID)
	assert.Equal(t, int64(3), payload.Likes)

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "subscriber of another post should not receive the message")
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub := startHub(t)
	srv := newLiveServer(t, hub)

	conn := dial(t, srv, 7)
	require.Eventually(t, func() bool { return hub.Subscribers(7) == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers(7) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	srv := newLiveServer(t, hub)

	conn := dial(t, srv, 3)
	require.Eventually(t, func() bool { return hub.Subscribers(3) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Stop()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// Calls after Stop must not block.
	msg, _ := NewMessage(MessageTypePostDeleted, PostPayload{PostID: 3})
	hub.Publish(3, msg)
	hub.Stop()
	assert.Equal(t, 0, hub.Subscribers(3))
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	client := &Client{send: make(chan []byte, 1)}
	client.Close()
	assert.NotPanics(t, client.Close)
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(MessageTypeCommentAdded, CommentPayload{PostID: 4, CommentID: 9, CreatedBy: "alice"})
	require.NoError(t, err)

	assert.Equal(t, MessageTypeCommentAdded, msg.Type)
	assert.NotZero(t, msg.Timestamp)
	assert.JSONEq(t, `{"postId":4,"commentId":9,"createdBy":"alice"}`, string(msg.Payload))
}
