package ai

import (
	"mailflow/internal/common/api"
	"mailflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AIApi struct {
	controller *AIController
}

func NewAIApi(controller *AIController) api.Route {
	return &AIApi{controller: controller}
}

func (h *AIApi) Setup(app *fiber.App) {
	aiGroup := app.Group("/api/ai", middleware.AuthMiddleware())

	aiGroup.Post("/personalize-email", h.controller.Personalize)
	aiGroup.Post("/chat", h.controller.Chat)
	aiGroup.Get("/recent-chats", h.controller.RecentChats)
	aiGroup.Post("/create-chat", h.controller.CreateChat)
	aiGroup.Get("/chat-messages/:chatId", h.controller.ChatMessages)
	aiGroup.Put("/rename-chat/:chatId", h.controller.RenameChat)
	aiGroup.Delete("/delete-chat/:chatId", h.controller.DeleteChat)
	aiGroup.Delete("/delete-empty-chat/:chatId", h.controller.DeleteEmptyChat)
}
