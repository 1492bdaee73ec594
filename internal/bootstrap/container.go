package bootstrap

import (
	"log"
	"time"

	"baknusai-be/internal/config"
	"baknusai-be/internal/controller"
	"baknusai-be/internal/pkg/logger"
	"baknusai-be/internal/pkg/serverutils"
	"baknusai-be/internal/repository/implementation"
	"baknusai-be/internal/service"
	"baknusai-be/pkg/karomah"
	"baknusai-be/pkg/llm"
	"baknusai-be/pkg/llm/gemini"
	"baknusai-be/pkg/llm/groq"
	"baknusai-be/pkg/mailcow"
	"baknusai-be/pkg/pklstore"
	"baknusai-be/pkg/sqlagent"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	fallbackChatTemperature = 0.7
	fallbackChatMaxTokens   = 2048
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	ChatController    controller.IChatController
	SessionController controller.ISessionController
	UserController    controller.IUserController

	// Shared middleware
	AuthMiddleware fiber.Handler

	Logger logger.ILogger
}

func NewContainer(appDB, pklDB *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	loc, err := time.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		log.Printf("[WARN] Invalid quota timezone %q, falling back to UTC: %v", cfg.Quota.Timezone, err)
		loc = time.UTC
	}

	// 2. Repositories
	userRepo := implementation.NewUserRepository(appDB, loc)
	sessionRepo := implementation.NewChatSessionRepository(appDB)
	messageRepo := implementation.NewChatMessageRepository(appDB)

	// 3. Providers. Gemini answers on its own defaults; the Groq fallback
	// gets pinned chat sampling settings.
	geminiProvider := gemini.NewGeminiProvider(cfg.Keys.GeminiAPIKeys, cfg.Ai.GeminiModel)
	groqProvider := groq.NewGroqProvider(cfg.Keys.GroqAPIKey, cfg.Ai.GroqModel)
	failover := llm.NewFailover(geminiProvider, groqProvider,
		llm.WithTemperature(fallbackChatTemperature),
		llm.WithMaxTokens(fallbackChatMaxTokens),
	)
	log.Printf("[INFO] Using LLM providers: %s (primary), %s (fallback)", cfg.Ai.GeminiModel, cfg.Ai.GroqModel)

	// 4. Context pipeline components
	pklStore := pklstore.NewStore(pklDB, sysLogger, loc)
	sandbox := pklstore.NewSandbox(pklStore, sysLogger)
	agent := sqlagent.NewAgent(geminiProvider, groqProvider, sysLogger)
	karomahClient := karomah.NewClient(cfg.Karomah.BaseURL, cfg.Karomah.Token, sysLogger)
	mailcowClient := mailcow.NewClient(cfg.Mailcow.Protocol, cfg.Mailcow.APIHost, cfg.Mailcow.APIKey)

	// 5. Services
	smtpVerifier := &service.SMTPVerifier{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
	}
	authService := service.NewAuthService(smtpVerifier, mailcowClient, userRepo, cfg.Auth, sysLogger)
	chatService := service.NewChatService(
		userRepo,
		agent,
		sandbox,
		pklStore,
		karomahClient,
		failover,
		cfg.Quota.DailyLimit,
		sysLogger,
	)
	sessionService := service.NewSessionService(userRepo, sessionRepo, messageRepo, sysLogger)
	userService := service.NewUserService(userRepo, cfg.Quota.DailyLimit, loc)

	// 6. Controllers
	secureCookies := cfg.App.Environment == "production"
	authMiddleware := serverutils.JwtMiddleware(authService, cfg.Auth.CookieName)

	return &Container{
		AuthController:    controller.NewAuthController(authService, cfg.Auth.CookieName, secureCookies),
		ChatController:    controller.NewChatController(chatService, cfg.Quota.DailyLimit, sysLogger),
		SessionController: controller.NewSessionController(sessionService),
		UserController:    controller.NewUserController(userService),
		AuthMiddleware:    authMiddleware,
		Logger:            sysLogger,
	}
}
