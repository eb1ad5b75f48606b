package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

// Server to Client
const (
	MessageTypeLikesChanged   MessageType = "LIKES_CHANGED"
	MessageTypeCommentAdded   MessageType = "COMMENT_ADDED"
	MessageTypeCommentUpdated MessageType = "COMMENT_UPDATED"
	MessageTypeCommentDeleted MessageType = "COMMENT_DELETED"
	MessageTypePostUpdated    MessageType = "POST_UPDATED"
	MessageTypePostDeleted    MessageType = "POST_DELETED"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

type LikesChangedPayload struct {
	PostID uint  `json:"postId"`
	Likes  int64 `json:"likes"`
}

type CommentPayload struct {
	PostID    uint   `json:"postId"`
	CommentID uint   `json:"commentId"`
	CreatedBy string `json:"createdBy"`
}

type PostPayload struct {
	PostID uint `json:"postId"`
}
