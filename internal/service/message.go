package service

import (
	"errors"
	"time"

	"chatserver/internal/models"

	"gorm.io/gorm"
)

// MessageService 封装消息相关的业务逻辑。
type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// MessageDTO 是对外输出的消息数据。
type MessageDTO struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ListByRoom 分页查询指定房间的消息，按创建时间升序返回。
// beforeID 非空时只返回早于该消息的记录。
func (s *MessageService) ListByRoom(roomID string, limit int, beforeID string) ([]MessageDTO, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := s.db.Where("room_id = ?", roomID)
	if beforeID != "" {
		var pivot models.Message
		if err := s.db.First(&pivot, "id = ?", beforeID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		} else {
			q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", pivot.CreatedAt, pivot.CreatedAt, pivot.ID)
		}
	}

	var msgs []models.Message
	if err := q.Order("created_at desc, id desc").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}

	// 反转为升序
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	out := make([]MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageDTO{
			Type:      "message",
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

// ListAll 返回全部消息，按创建时间倒序，供管理接口使用。
func (s *MessageService) ListAll(limit int) ([]MessageDTO, error) {
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	var msgs []models.Message
	if err := s.db.Order("created_at desc, id desc").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	out := make([]MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageDTO{
			Type:      "message",
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
