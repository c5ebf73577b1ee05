package user

import (
	"mailflow/internal/common/api"
	"mailflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
}

func NewUserApi(controller *UserController) api.Route {
	return &UserApi{controller: controller}
}

func (h *UserApi) Setup(app *fiber.App) {
	users := app.Group("/api/user", middleware.AuthMiddleware())

	users.Get("/profile", h.controller.GetProfile)
	users.Put("/profile", h.controller.UpdateProfile)
	users.Put("/change-password", h.controller.ChangePassword)
}
