package service

import (
	"chatserver/internal/chat"
	"chatserver/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomService 封装房间相关的业务逻辑。
type RoomService struct {
	db    *gorm.DB
	coord *chat.Coordinator
}

func NewRoomService(db *gorm.DB, coord *chat.Coordinator) *RoomService {
	return &RoomService{db: db, coord: coord}
}

// RoomDTO 是对外输出的房间数据。
type RoomDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Online int    `json:"online"`
}

// Create 创建新房间，ID 为生成的 UUID。
func (s *RoomService) Create(name string) (*RoomDTO, error) {
	room := models.Room{ID: uuid.NewString(), Name: name}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}
	return &RoomDTO{ID: room.ID, Name: room.Name, Online: 0}, nil
}

// List 返回房间列表，附带各房间的在线人数。
func (s *RoomService) List(limit int) ([]RoomDTO, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var rooms []models.Room
	if err := s.db.Order("created_at asc, id asc").Limit(limit).Find(&rooms).Error; err != nil {
		return nil, err
	}
	out := make([]RoomDTO, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomDTO{ID: r.ID, Name: r.Name, Online: s.coord.Online(r.ID)})
	}
	return out, nil
}

// Exists 检查房间是否存在。
func (s *RoomService) Exists(roomID string) (*models.Room, error) {
	var room models.Room
	if err := s.db.First(&room, "id = ?", roomID).Error; err != nil {
		return nil, ErrRoomNotFound
	}
	return &room, nil
}
