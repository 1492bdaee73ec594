package mapper

import (
	"time"

	"baknusai-be/internal/entity"
	"baknusai-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}

	return &entity.User{
		Id:                u.Id,
		Email:             u.Email,
		Name:              u.Name,
		Tag:               u.Tag,
		DailyRequestCount: u.DailyRequestCount,
		LastRequestDate:   u.LastRequestDate,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	var updatedAt time.Time
	if u.UpdatedAt != nil {
		updatedAt = *u.UpdatedAt
	}

	return &model.User{
		Id:                u.Id,
		Email:             u.Email,
		Name:              u.Name,
		Tag:               u.Tag,
		DailyRequestCount: u.DailyRequestCount,
		LastRequestDate:   u.LastRequestDate,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}
