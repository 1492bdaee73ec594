package service

import (
	"context"
	"errors"
	"strings"

	"baknusai-be/internal/dto"
	"baknusai-be/internal/entity"
	"baknusai-be/internal/pkg/logger"
	"baknusai-be/internal/repository/contract"
	"baknusai-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ErrSessionNotFound covers both a missing session and one owned by someone
// else, so ownership is never leaked through error messages.
var ErrSessionNotFound = errors.New("chat session not found")

type ISessionService interface {
	GetAllSessions(ctx context.Context, identity *dto.Identity) ([]*dto.SessionResponse, error)
	GetSession(ctx context.Context, identity *dto.Identity, sessionId uuid.UUID) (*dto.SessionDetailResponse, error)
	CreateSession(ctx context.Context, identity *dto.Identity, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	ReplaceSession(ctx context.Context, identity *dto.Identity, sessionId uuid.UUID, req *dto.ReplaceSessionRequest) error
	DeleteSession(ctx context.Context, identity *dto.Identity, sessionId uuid.UUID) error
}

type sessionService struct {
	userRepo    contract.UserRepository
	sessionRepo contract.ChatSessionRepository
	messageRepo contract.ChatMessageRepository
	log         logger.ILogger
}

func NewSessionService(
	userRepo contract.UserRepository,
	sessionRepo contract.ChatSessionRepository,
	messageRepo contract.ChatMessageRepository,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		log:         log,
	}
}

// resolveUser maps the JWT identity onto the local user row, creating it on
// first contact (logins and chats may race the first session save).
func (s *sessionService) resolveUser(ctx context.Context, identity *dto.Identity) (*entity.User, error) {
	user, err := s.userRepo.FindOne(ctx, specification.ByEmail{Email: identity.Email})
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &entity.User{
		Email: identity.Email,
		Name:  identity.Name,
		Tag:   identity.Tag,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *sessionService) ownedSession(ctx context.Context, identity *dto.Identity, sessionId uuid.UUID) (*entity.ChatSession, error) {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: user.Id},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) GetAllSessions(ctx context.Context, identity *dto.Identity) ([]*dto.SessionResponse, error) {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.FindAll(ctx,
		specification.UserOwnedBy{UserID: user.Id},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = &dto.SessionResponse{
			Id:        session.Id,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		}
	}
	return responses, nil
}

func (s *sessionService) GetSession(ctx context.Context, identity *dto.Identity, sessionId uuid.UUID) (*dto.SessionDetailResponse, error) {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindOneWithMessages(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: user.Id},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	turns := make([]dto.SessionTurnResponse, len(session.Messages))
	for i, msg := range session.Messages {
		turns[i] = dto.SessionTurnResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Provider:  msg.Provider,
			CreatedAt: msg.CreatedAt,
		}
	}

	return &dto.SessionDetailResponse{
		Id:        session.Id,
		Title:     session.Title,
		Messages:  turns,
		CreatedAt: session.CreatedAt,
	}, nil
}

func (s *sessionService) CreateSession(ctx context.Context, identity *dto.Identity, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	user, err := s.resolveUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = titleFromTurns(req.Messages)
	}

	session := &entity.ChatSession{
		UserId:   user.Id,
		Title:    title,
		Messages: turnsToMessages(req.Messages),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

// ReplaceSession syncs the full message list for a session: the stored
// transcript is replaced wholesale rather than diffed, since the client
// always sends the complete conversation.
func (s *sessionService) ReplaceSession(ctx context.Context, identity *dto.Identity, sessionId uuid.UUID, req *dto.ReplaceSessionRequest) error {
	session, err := s.ownedSession(ctx, identity, sessionId)
	if err != nil {
		return err
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		session.Title = title
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return err
	}

	if err := s.messageRepo.DeleteAllBySessionId(ctx, session.Id); err != nil {
		return err
	}

	messages := turnsToMessages(req.Messages)
	refs := make([]*entity.ChatMessage, len(messages))
	for i := range messages {
		messages[i].ChatSessionId = session.Id
		refs[i] = &messages[i]
	}
	return s.messageRepo.CreateBatch(ctx, refs)
}

func (s *sessionService) DeleteSession(ctx context.Context, identity *dto.Identity, sessionId uuid.UUID) error {
	session, err := s.ownedSession(ctx, identity, sessionId)
	if err != nil {
		return err
	}

	if err := s.messageRepo.DeleteAllBySessionId(ctx, session.Id); err != nil {
		return err
	}
	return s.sessionRepo.Delete(ctx, session.Id)
}

func turnsToMessages(turns []dto.ChatTurn) []entity.ChatMessage {
	messages := make([]entity.ChatMessage, len(turns))
	for i, t := range turns {
		role := t.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = entity.ChatMessage{
			Role:     role,
			Content:  t.Content,
			Provider: t.Provider,
		}
	}
	return messages
}

// titleFromTurns derives a session title from the first user turn.
func titleFromTurns(turns []dto.ChatTurn) string {
	for _, t := range turns {
		if t.Role == "user" && strings.TrimSpace(t.Content) != "" {
			title := strings.TrimSpace(t.Content)
			// truncate by runes so a multi-byte character is never split
			if r := []rune(title); len(r) > 60 {
				title = string(r[:60])
			}
			return title
		}
	}
	return "Percakapan baru"
}
