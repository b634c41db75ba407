package models

import "time"

// 所有主键均为外部生成的字符串 ID（用户、消息为 UUID，房间为稳定 slug），
// 由业务层在写入前赋值，数据库不做自增。
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Room struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:128;not null"`
	CreatedAt time.Time
}

// Message 冗余存储发送时的用户名，读历史时无需再关联 users 表。
type Message struct {
	ID        string    `gorm:"primaryKey;size:36"`
	RoomID    string    `gorm:"index:idx_msg_room_created;size:64;not null"`
	UserID    string    `gorm:"index;size:36;not null"`
	Username  string    `gorm:"size:64;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_msg_room_created"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"index;size:36;not null"`
	Token     string    `gorm:"uniqueIndex;size:128;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
}
