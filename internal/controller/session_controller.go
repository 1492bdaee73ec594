package controller

import (
	"errors"

	"baknusai-be/internal/dto"
	"baknusai-be/internal/pkg/serverutils"
	"baknusai-be/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	GetOne(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Replace(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	service  service.ISessionService
	validate *validator.Validate
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{
		service:  service,
		validate: validator.New(),
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/sessions", authMiddleware)
	h.Get("/", c.GetAll)
	h.Post("/", c.Create)
	h.Get("/:id", c.GetOne)
	h.Put("/:id", c.Replace)
	h.Delete("/:id", c.Delete)
}

func (c *sessionController) GetAll(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	sessions, err := c.service.GetAllSessions(ctx.Context(), identity)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    sessions,
	})
}

func (c *sessionController) GetOne(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	session, err := c.service.GetSession(ctx.Context(), identity, sessionId)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return notFound(ctx)
		}
		return internalError(ctx)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    session,
	})
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := c.validate.Struct(&req); err != nil {
		return badRequest(ctx, err.Error())
	}

	res, err := c.service.CreateSession(ctx.Context(), identity, &req)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "Session created",
		"data":    res,
	})
}

func (c *sessionController) Replace(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	var req dto.ReplaceSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := c.validate.Struct(&req); err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := c.service.ReplaceSession(ctx.Context(), identity, sessionId, &req); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return notFound(ctx)
		}
		return internalError(ctx)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Session updated",
		"data":    nil,
	})
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return badRequest(ctx, "Invalid session id")
	}

	if err := c.service.DeleteSession(ctx.Context(), identity, sessionId); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return notFound(ctx)
		}
		return internalError(ctx)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Session deleted",
		"data":    nil,
	})
}

func badRequest(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"code":    400,
		"message": message,
	})
}

func notFound(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"code":    404,
		"message": "Session not found",
	})
}

func internalError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"code":    500,
		"message": "Internal server error",
	})
}
