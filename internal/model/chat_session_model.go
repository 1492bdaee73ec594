package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSession struct {
	Id        uuid.UUID      `gorm:"type:char(36);primaryKey"`
	UserId    uuid.UUID      `gorm:"type:char(36);not null;index"` // User ownership for data isolation
	Title     string         `gorm:"type:varchar(255);not null"`
	Messages  []ChatMessage  `gorm:"foreignKey:ChatSessionId"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
