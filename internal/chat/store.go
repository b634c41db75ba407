package chat

import "time"

// Store 是协调器依赖的持久化边界。实现方负责按创建时间升序返回历史，
// 未命中的查询返回 (nil, nil) 而不是错误。
type Store interface {
	CreateMessage(m MessageRecord) error
	ListMessages(roomID string, limit int) ([]MessageRecord, error)
	ListRooms() ([]RoomRecord, error)
	GetRoom(id string) (*RoomRecord, error)
	GetUser(id string) (*UserRecord, error)
}

type MessageRecord struct {
	ID        string
	RoomID    string
	UserID    string
	Username  string
	Content   string
	CreatedAt time.Time
}

type RoomRecord struct {
	ID   string
	Name string
}

type UserRecord struct {
	ID       string
	Username string
}
