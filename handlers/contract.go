package handlers

import (
	"collab-marketplace/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContractRoutes(app *fiber.App, contractService *services.ContractService) {
	// 🔓 Public catalog — no user context needed, but still behind Gateway auth
	app.Get("/contracts", contractService.ListLiveContracts)

	// Brand side
	app.Post("/contracts", contractService.CreateContract)
	app.Get("/brand/contracts", contractService.ListBrandContracts)
	app.Get("/brand/contracts/:id", contractService.GetBrandContract)

	// Creator bookmarks
	app.Post("/contracts/:id/save", contractService.SaveContract)
	app.Delete("/contracts/:id/save", contractService.UnsaveContract)
	app.Get("/creator/saved", contractService.ListSavedContracts)
}
