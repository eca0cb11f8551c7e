package handlers

import (
	"collab-marketplace/services"

	"github.com/gofiber/fiber/v2"
)

func SetupApplicationRoutes(app *fiber.App, applicationService *services.ApplicationService, bidService *services.BidService) {
	// Creator: apply and track
	app.Post("/contracts/:id/applications", applicationService.Apply)
	app.Get("/creator/applications", applicationService.ListMine)
	app.Get("/creator/applications/:id", applicationService.GetMine)

	// Brand: approval gate
	app.Patch("/applications/:id/status", applicationService.UpdateStatus)

	// Bid lifecycle
	app.Post("/applications/:id/bids", bidService.SubmitBid)
	app.Post("/bids/:id/accept", bidService.AcceptBid)
	app.Post("/bids/:id/reject", bidService.RejectBid)
}
