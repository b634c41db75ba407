package chat

import (
	"errors"
	"time"
)

const (
	EventRoomJoined = "room_joined"
	EventMessage    = "message"
	EventPresence   = "presence"
	EventTyping     = "typing"
	EventError      = "error"
)

const (
	PresenceJoined = "joined"
	PresenceLeft   = "left"
)

type MessageEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type PresenceEvent struct {
	Type      string    `json:"type"`
	RoomID    string    `json:"room_id"`
	Username  string    `json:"username"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomJoinedEvent 只发给刚加入的连接，携带历史消息与按加入顺序排列的成员名。
type RoomJoinedEvent struct {
	Type     string         `json:"type"`
	RoomID   string         `json:"room_id"`
	Messages []MessageEvent `json:"messages"`
	Members  []string       `json:"members"`
}

type TypingEvent struct {
	Type     string `json:"type"`
	RoomID   string `json:"room_id"`
	Username string `json:"username"`
	IsTyping bool   `json:"is_typing"`
}

type ErrorEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func messageEvent(m MessageRecord) MessageEvent {
	return MessageEvent{
		Type:      EventMessage,
		ID:        m.ID,
		RoomID:    m.RoomID,
		UserID:    m.UserID,
		Username:  m.Username,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// RejectReason 把协议错误映射为下发给客户端的 reason 字段。
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrNotIdentified):
		return "not_identified"
	case errors.Is(err, ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, ErrInvalidMessage):
		return "invalid_message"
	case errors.Is(err, ErrUnknownRoom):
		return "unknown_room"
	case errors.Is(err, ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, ErrPersistence):
		return "persistence_failure"
	default:
		return "protocol_violation"
	}
}
