package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant model"`
	Content string `json:"content" validate:"required"`
	// Provider tags which upstream produced an assistant turn. The client
	// takes it from the X-Provider header when syncing a session.
	Provider *string `json:"provider,omitempty"`
}

type ChatRequest struct {
	Messages []ChatTurn `json:"messages" validate:"required,min=1,dive"`
}

// StreamChunk is one SSE payload on the chat stream.
type StreamChunk struct {
	Content string `json:"content"`
}

type SessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type SessionDetailResponse struct {
	Id        uuid.UUID             `json:"id"`
	Title     string                `json:"title"`
	Messages  []SessionTurnResponse `json:"messages"`
	CreatedAt time.Time             `json:"created_at"`
}

type SessionTurnResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Provider  *string   `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateSessionRequest struct {
	Title    string     `json:"title" validate:"omitempty,max=255"`
	Messages []ChatTurn `json:"messages" validate:"omitempty,dive"`
}

type ReplaceSessionRequest struct {
	Title    string     `json:"title" validate:"omitempty,max=255"`
	Messages []ChatTurn `json:"messages" validate:"required,dive"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}
