package handlers

import (
	"collab-marketplace/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCreatorProfileRoutes(app *fiber.App, creatorProfileService *services.CreatorProfileService) {
	// 🔓 Public creator page
	app.Get("/c/:handle", creatorProfileService.GetPublicProfileByHandle)

	// Owner editing
	app.Get("/creator/profile", creatorProfileService.GetMyPublicProfile)
	app.Get("/creator/profile/handle", creatorProfileService.CheckHandle)
	app.Put("/creator/profile", creatorProfileService.UpdatePublicProfile)

	// Brand outreach from a public page
	app.Post("/c/:handle/collaborate", creatorProfileService.SubmitCollaborationRequest)
}
