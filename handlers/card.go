// handlers/card.go
package handlers

import (
	"card-collection-system/middleware"
	"card-collection-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCardRoutes(app *fiber.App, cardService *services.CardService, collectionService *services.CollectionService, jwtSecret string) {
	cards := app.Group("/api/cards")

	// 🔐 Collection routes — registered before /:id so the paths don't collide
	collection := cards.Group("/collection", middleware.RequireAuth(jwtSecret))
	collection.Get("/my", collectionService.GetMyCollection)
	collection.Post("/", collectionService.AddToCollection)
	collection.Delete("/:cardId", collectionService.RemoveFromCollection)
	collection.Put("/:userCardId/quantity", collectionService.UpdateQuantity)

	// 🔓 Public routes
	cards.Get("/", cardService.GetAllCards)
	cards.Get("/album/:albumId", cardService.GetCardsByAlbum)
	cards.Get("/:id", cardService.GetCard)

	// 🔒 Admin-only mutations
	admin := cards.Group("/", middleware.RequireAuth(jwtSecret), middleware.RequireAdmin())
	admin.Post("/", cardService.Create)
	admin.Put("/:id", cardService.Update)
	admin.Delete("/:id", cardService.Delete)
	admin.Post("/:id/image", cardService.UploadCardImage)
}
