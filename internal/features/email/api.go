package email

import (
	"mailflow/internal/common/api"
	"mailflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EmailApi struct {
	controller *EmailController
}

func NewEmailApi(controller *EmailController) api.Route {
	return &EmailApi{controller: controller}
}

func (h *EmailApi) Setup(app *fiber.App) {
	emails := app.Group("/api/emails", middleware.AuthMiddleware())

	emails.Post("/send-single", h.controller.SendSingle)
	emails.Post("/send-bulk", h.controller.SendBulk)
}
