package contract

import (
	"context"

	"baknusai-be/internal/entity"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	CreateBatch(ctx context.Context, messages []*entity.ChatMessage) error
	DeleteAllBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
