package handlers

import (
	"collab-marketplace/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService) {
	// 🔐 Identity routes — callers without user context are rejected by the guards
	app.Post("/onboarding/role", profileService.SelectRole)
	app.Get("/me", profileService.GetMe)
	app.Get("/dashboard", profileService.GetDashboard)

	app.Put("/creator/settings", profileService.UpdateCreatorSettings)
	app.Put("/brand/settings", profileService.UpdateBrandSettings)
}
