package template

import (
	"mailflow/internal/common/api"
	"mailflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type TemplateApi struct {
	controller *TemplateController
}

func NewTemplateApi(controller *TemplateController) api.Route {
	return &TemplateApi{controller: controller}
}

func (h *TemplateApi) Setup(app *fiber.App) {
	templates := app.Group("/api/templates", middleware.AuthMiddleware())

	templates.Get("/", h.controller.List)
	templates.Post("/", h.controller.Create)
	templates.Get("/:id", h.controller.Get)
	templates.Put("/:id", h.controller.Update)
	templates.Delete("/:id", h.controller.Delete)
}
