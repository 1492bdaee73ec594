package service

import (
	"context"
	"fmt"
	"strings"

	"baknusai-be/internal/constant"
	"baknusai-be/internal/dto"
	"baknusai-be/internal/pkg/logger"
	"baknusai-be/internal/repository/contract"
	"baknusai-be/pkg/keyword"
	"baknusai-be/pkg/llm"
	"baknusai-be/pkg/pklstore"

	"golang.org/x/sync/errgroup"
)

// historyWindow is how many trailing turns are kept as model context.
const historyWindow = 6

type IChatService interface {
	// OpenChat runs the full context pipeline and opens the completion
	// stream. Returns the stream, the name of the provider that answered,
	// and an error (contract.ErrQuotaExceeded and rate-limit errors are
	// classified by the controller).
	OpenChat(ctx context.Context, identity *dto.Identity, turns []dto.ChatTurn) (llm.Stream, string, error)
}

// SQLGenerator produces a candidate SQL statement from chat history.
type SQLGenerator interface {
	GenerateQuery(ctx context.Context, history []llm.Message) (string, bool)
}

// SQLExecutor runs a candidate statement in the sandbox.
type SQLExecutor interface {
	Execute(ctx context.Context, query string) string
}

// PKLContext aggregates context blocks from the internship database.
type PKLContext interface {
	BuildSummaryContext(ctx context.Context) string
	BuildPersonalContext(ctx context.Context, email string) string
	SearchStudentsByName(ctx context.Context, keyword string) string
}

// KaromahContext aggregates context blocks from the partner journal API.
type KaromahContext interface {
	Summary(ctx context.Context) string
	SearchByName(ctx context.Context, keyword string) string
}

// StreamOpener opens the completion stream (normally llm.Failover).
type StreamOpener interface {
	Open(ctx context.Context, system string, history []llm.Message, options ...llm.Option) (llm.Stream, string, error)
}

type chatService struct {
	userRepo   contract.UserRepository
	sqlAgent   SQLGenerator
	sandbox    SQLExecutor
	pkl        PKLContext
	karomah    KaromahContext
	opener     StreamOpener
	dailyLimit int
	log        logger.ILogger
}

func NewChatService(
	userRepo contract.UserRepository,
	sqlAgent SQLGenerator,
	sandbox SQLExecutor,
	pkl PKLContext,
	karomah KaromahContext,
	opener StreamOpener,
	dailyLimit int,
	log logger.ILogger,
) IChatService {
	return &chatService{
		userRepo:   userRepo,
		sqlAgent:   sqlAgent,
		sandbox:    sandbox,
		pkl:        pkl,
		karomah:    karomah,
		opener:     opener,
		dailyLimit: dailyLimit,
		log:        log,
	}
}

func (s *chatService) OpenChat(ctx context.Context, identity *dto.Identity, turns []dto.ChatTurn) (llm.Stream, string, error) {
	if _, err := s.userRepo.ConsumeDailyQuota(ctx, identity.Email, s.dailyLimit); err != nil {
		return nil, "", err
	}

	history := toHistory(trimTurns(turns, historyWindow))
	lastUser := lastUserContent(history)

	searchKeyword := keyword.Extract(lastUser)

	// Text-to-SQL runs first; the aggregators below only fan out once the
	// dynamic result is known, since a successful dynamic answer makes the
	// keyword searches redundant.
	var sqlResult string
	if query, ok := s.sqlAgent.GenerateQuery(ctx, history); ok {
		sqlResult = s.sandbox.Execute(ctx, query)
	}
	if sqlResult != "" && !pklstore.IsQueryError(sqlResult) {
		searchKeyword = ""
	}

	var (
		pklSummary     string
		karomahSummary string
		personal       string
		pklSearch      string
		karomahSearch  string
	)

	// Aggregators swallow their own failures and render "", so the group
	// never errors; it is used purely for the fan-out.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pklSummary = s.pkl.BuildSummaryContext(gctx)
		return nil
	})
	g.Go(func() error {
		karomahSummary = s.karomah.Summary(gctx)
		return nil
	})
	g.Go(func() error {
		personal = s.pkl.BuildPersonalContext(gctx, identity.Email)
		return nil
	})
	if searchKeyword != "" {
		g.Go(func() error {
			pklSearch = s.pkl.SearchStudentsByName(gctx, searchKeyword)
			return nil
		})
		g.Go(func() error {
			karomahSearch = s.karomah.SearchByName(gctx, searchKeyword)
			return nil
		})
	}
	_ = g.Wait()

	system := composeSystemPrompt(identity, pklSummary, karomahSummary, sqlResult, pklSearch, karomahSearch, personal)

	// Sampling is left to the opener: the primary runs on provider defaults,
	// fallback settings are pinned where the failover is wired up.
	stream, provider, err := s.opener.Open(ctx, system, history)
	if err != nil {
		s.log.Error("chat", "all completion providers failed", map[string]interface{}{
			"email": identity.Email,
			"error": err.Error(),
		})
		return nil, "", err
	}

	s.log.Info("chat", "stream opened", map[string]interface{}{
		"email":    identity.Email,
		"provider": provider,
		"keyword":  searchKeyword,
		"has_sql":  sqlResult != "",
	})
	return stream, provider, nil
}

// composeSystemPrompt assembles the final instruction in a fixed block order.
// Empty blocks are omitted entirely.
func composeSystemPrompt(identity *dto.Identity, pklSummary, karomahSummary, sqlResult, pklSearch, karomahSearch, personal string) string {
	var sb strings.Builder
	sb.WriteString(constant.SystemPrompt)

	sb.WriteString(fmt.Sprintf("\n\nPengguna yang sedang berbincang denganmu saat ini adalah %s (email: %s)", identity.Name, identity.Email))
	if identity.Tag != nil && *identity.Tag != "" {
		sb.WriteString(fmt.Sprintf(" dengan tag peran: %s", *identity.Tag))
	}
	sb.WriteString(".\n")

	writeBlock(&sb, "STATISTIK DATABASE PKL", pklSummary)
	writeBlock(&sb, "STATISTIK BUKU RAMADAN (KAROMAH)", karomahSummary)
	writeBlock(&sb, "HASIL DATABASE DARI AI SQL AGENT", sqlResult)
	writeBlock(&sb, "HASIL PENCARIAN SISWA (PKL)", pklSearch)
	writeBlock(&sb, "HASIL PENCARIAN (KAROMAH)", karomahSearch)
	writeBlock(&sb, "DATA PRIBADI", personal)

	return sb.String()
}

func writeBlock(sb *strings.Builder, title, content string) {
	if content == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("\n===== %s =====\n", title))
	sb.WriteString(content)
	sb.WriteString("\n")
}

// trimTurns keeps the trailing n turns.
func trimTurns(turns []dto.ChatTurn, n int) []dto.ChatTurn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

func toHistory(turns []dto.ChatTurn) []llm.Message {
	history := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		role := llm.RoleUser
		if t.Role == "assistant" || t.Role == "model" {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: t.Content})
	}
	return history
}

func lastUserContent(history []llm.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == llm.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
