package campaign

import (
	"mailflow/internal/common/api"
	"mailflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CampaignApi struct {
	controller *CampaignController
}

func NewCampaignApi(controller *CampaignController) api.Route {
	return &CampaignApi{controller: controller}
}

func (h *CampaignApi) Setup(app *fiber.App) {
	campaigns := app.Group("/api/campaigns", middleware.AuthMiddleware())

	campaigns.Get("/stats", h.controller.Stats)
	campaigns.Get("/", h.controller.List)
	campaigns.Post("/", h.controller.Create)
	campaigns.Get("/:id", h.controller.Get)
	campaigns.Put("/:id", h.controller.Update)
	campaigns.Delete("/:id", h.controller.Delete)
}
