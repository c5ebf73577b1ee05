package credential

import (
	"mailflow/internal/common/api"
	"mailflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CredentialApi struct {
	controller *CredentialController
}

func NewCredentialApi(controller *CredentialController) api.Route {
	return &CredentialApi{controller: controller}
}

func (h *CredentialApi) Setup(app *fiber.App) {
	credentials := app.Group("/api/credentials", middleware.AuthMiddleware())

	credentials.Get("/", h.controller.List)
	credentials.Post("/", h.controller.Create)
	credentials.Get("/:id", h.controller.Get)
	credentials.Delete("/:id", h.controller.Delete)
}
