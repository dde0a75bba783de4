// handlers/auth.go
package handlers

import (
	"card-collection-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	auth := app.Group("/api/auth")

	auth.Post("/register", authService.Register)
	auth.Post("/login", authService.Login)
	auth.Get("/validate", authService.Validate)
}
