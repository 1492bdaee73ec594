package controller

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"baknusai-be/internal/dto"
	"baknusai-be/internal/pkg/logger"
	"baknusai-be/internal/pkg/serverutils"
	"baknusai-be/internal/repository/contract"
	"baknusai-be/internal/service"
	"baknusai-be/pkg/llm"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const (
	quotaExceededMessage = "Batas harian tercapai. Kamu sudah bertanya %d kali hari ini. Silakan coba lagi besok!"
	highTrafficMessage   = "Mohon maaf, semua jalur AI sedang mengalami batas antrean trafik tinggi. Silakan coba lagi 1 menit kemudian."
	doneSentinel         = "data: [DONE]\n\n"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	service    service.IChatService
	dailyLimit int
	validate   *validator.Validate
	log        logger.ILogger
}

func NewChatController(service service.IChatService, dailyLimit int, log logger.ILogger) IChatController {
	return &chatController{
		service:    service,
		dailyLimit: dailyLimit,
		validate:   validator.New(),
		log:        log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	r.Post("/chat", authMiddleware, c.Chat)
}

// Chat runs the context pipeline and relays the completion stream as SSE.
// The response is only hijacked once the stream is open, so pipeline errors
// still produce ordinary JSON statuses.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "Invalid request body",
		})
	}
	if err := c.validate.Struct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}

	stream, provider, err := c.service.OpenChat(ctx.Context(), identity, req.Messages)
	if err != nil {
		switch {
		case errors.Is(err, contract.ErrQuotaExceeded):
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"code":    429,
				"message": fmt.Sprintf(quotaExceededMessage, c.dailyLimit),
			})
		case llm.IsRateLimited(err):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success": false,
				"code":    503,
				"message": highTrafficMessage,
			})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"code":    500,
				"message": "Internal server error",
			})
		}
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")
	ctx.Set("X-Provider", provider)

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer stream.Close()

		for {
			delta, err := stream.Recv()
			if err == io.EOF {
				break
			}
			if err != nil {
				// mid-stream failure: the client sees a truncated stream,
				// there is no provider switch at this point
				c.log.Error("chat", "stream broke mid-flight", map[string]interface{}{
					"provider": provider,
					"error":    err.Error(),
				})
				break
			}
			if delta == "" {
				continue
			}

			payload, err := json.Marshal(dto.StreamChunk{Content: delta})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if err := w.Flush(); err != nil {
				// client went away
				return
			}
		}

		fmt.Fprint(w, doneSentinel)
		w.Flush()
	}))

	return nil
}
