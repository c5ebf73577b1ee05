package auth

import (
	"mailflow/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
}

func NewAuthApi(controller *AuthController) api.Route {
	return &AuthApi{controller: controller}
}

func (h *AuthApi) Setup(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", h.controller.Register)
	authGroup.Post("/login", h.controller.Login)
	authGroup.Post("/forgot-password", h.controller.ForgotPassword)
	authGroup.Get("/validate-reset-token/:token", h.controller.ValidateResetToken)
	authGroup.Patch("/reset-password/:token", h.controller.ResetPassword)
}
