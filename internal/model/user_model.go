package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                uuid.UUID  `gorm:"type:char(36);primaryKey"`
	Email             string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name              string     `gorm:"type:varchar(255);not null"`
	Tag               *string    `gorm:"type:varchar(50)"`
	DailyRequestCount int        `gorm:"default:0"`
	LastRequestDate   *time.Time `gorm:"type:date"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
