package controller

import (
	"baknusai-be/internal/pkg/serverutils"
	"baknusai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	GetQuota(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/user", authMiddleware)
	h.Get("/quota", c.GetQuota)
}

func (c *userController) GetQuota(ctx *fiber.Ctx) error {
	identity := serverutils.IdentityFromCtx(ctx)

	quota, err := c.service.GetQuota(ctx.Context(), identity.Email)
	if err != nil {
		return internalError(ctx)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "OK",
		"data":    quota,
	})
}
