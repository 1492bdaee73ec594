package contract

import (
	"context"
	"errors"

	"baknusai-be/internal/entity"
	"baknusai-be/internal/repository/specification"
)

// ErrQuotaExceeded is returned by ConsumeDailyQuota when the user has already
// spent today's allowance. Callers map it to a 429.
var ErrQuotaExceeded = errors.New("daily request quota exceeded")

type UserRepository interface {
	// Upsert creates the user on first contact or refreshes name/tag on a
	// returning login. The entity is updated in place with the stored row.
	Upsert(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)

	// ConsumeDailyQuota atomically resets a stale counter, checks it against
	// the limit and increments it, returning the post-increment user state.
	// Returns ErrQuotaExceeded when the user is out of requests for the day.
	ConsumeDailyQuota(ctx context.Context, email string, limit int) (*entity.User, error)
}
