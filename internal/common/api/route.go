package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature's api surface and collected by Fx
// into the "routes" group for registration.
type Route interface {
	Setup(app *fiber.App)
}
