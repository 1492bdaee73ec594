package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id            uuid.UUID      `gorm:"type:char(36);primaryKey"`
	ChatSessionId uuid.UUID      `gorm:"type:char(36);not null;index"`
	Role          string         `gorm:"type:varchar(20);not null"`
	Content       string         `gorm:"type:longtext;not null"`
	Provider      *string        `gorm:"type:varchar(50)"` // which upstream produced the reply
	Meta          datatypes.JSON `gorm:"type:json"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
