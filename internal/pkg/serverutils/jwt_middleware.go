package serverutils

import (
	"baknusai-be/internal/dto"
	"baknusai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// JwtMiddleware verifies the session token from the auth cookie or the
// Authorization header and stores the identity in request locals.
func JwtMiddleware(auth service.IAuthService, cookieName string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := ctx.Cookies(cookieName)
		if tokenStr == "" {
			authHeader := ctx.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				tokenStr = authHeader[7:]
			}
		}
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    401,
				"message": "Missing token",
			})
		}

		identity, err := auth.ParseToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    401,
				"message": "Invalid token",
			})
		}

		ctx.Locals(identityKey, identity)
		return ctx.Next()
	}
}

// IdentityFromCtx retrieves the identity stored by JwtMiddleware.
func IdentityFromCtx(ctx *fiber.Ctx) *dto.Identity {
	identity, _ := ctx.Locals(identityKey).(*dto.Identity)
	return identity
}
