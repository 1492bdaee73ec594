package service

import (
	"context"
	"time"

	"baknusai-be/internal/dto"
	"baknusai-be/internal/repository/contract"
	"baknusai-be/internal/repository/specification"
)

type IUserService interface {
	// GetQuota reports today's effective usage without spending a request.
	GetQuota(ctx context.Context, email string) (*dto.QuotaResponse, error)
}

type userService struct {
	userRepo   contract.UserRepository
	dailyLimit int
	loc        *time.Location
}

func NewUserService(userRepo contract.UserRepository, dailyLimit int, loc *time.Location) IUserService {
	return &userService{
		userRepo:   userRepo,
		dailyLimit: dailyLimit,
		loc:        loc,
	}
}

func (s *userService) GetQuota(ctx context.Context, email string) (*dto.QuotaResponse, error) {
	user, err := s.userRepo.FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}

	used := 0
	if user != nil && user.LastRequestDate != nil {
		now := time.Now().In(s.loc)
		last := user.LastRequestDate.In(s.loc)
		if last.Year() == now.Year() && last.YearDay() == now.YearDay() {
			used = user.DailyRequestCount
		}
	}

	remaining := s.dailyLimit - used
	if remaining < 0 {
		remaining = 0
	}

	return &dto.QuotaResponse{
		Used:      used,
		Limit:     s.dailyLimit,
		Remaining: remaining,
		Exhausted: remaining == 0,
	}, nil
}
