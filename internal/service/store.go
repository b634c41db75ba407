package service

import (
	"errors"

	"chatserver/internal/chat"
	"chatserver/internal/models"

	"gorm.io/gorm"
)

// ChatStore 用 gorm 实现协调器依赖的 chat.Store 边界。
type ChatStore struct {
	db *gorm.DB
}

func NewChatStore(db *gorm.DB) *ChatStore {
	return &ChatStore{db: db}
}

func (s *ChatStore) CreateMessage(m chat.MessageRecord) error {
	msg := models.Message{
		ID:        m.ID,
		RoomID:    m.RoomID,
		UserID:    m.UserID,
		Username:  m.Username,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	return s.db.Create(&msg).Error
}

// ListMessages 返回房间最近的 limit 条消息，按创建时间升序，同时间按 ID 升序。
func (s *ChatStore) ListMessages(roomID string, limit int) ([]chat.MessageRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var msgs []models.Message
	err := s.db.Where("room_id = ?", roomID).
		Order("created_at desc, id desc").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	// 反转为升序
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	out := make([]chat.MessageRecord, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chat.MessageRecord{
			ID:        m.ID,
			RoomID:    m.RoomID,
			UserID:    m.UserID,
			Username:  m.Username,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func (s *ChatStore) ListRooms() ([]chat.RoomRecord, error) {
	var rooms []models.Room
	if err := s.db.Order("created_at asc, id asc").Find(&rooms).Error; err != nil {
		return nil, err
	}
	out := make([]chat.RoomRecord, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, chat.RoomRecord{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (s *ChatStore) GetRoom(id string) (*chat.RoomRecord, error) {
	var room models.Room
	if err := s.db.First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat.RoomRecord{ID: room.ID, Name: room.Name}, nil
}

func (s *ChatStore) GetUser(id string) (*chat.UserRecord, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat.UserRecord{ID: user.ID, Username: user.Username}, nil
}
