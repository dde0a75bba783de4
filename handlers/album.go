// handlers/album.go
package handlers

import (
	"card-collection-system/middleware"
	"card-collection-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAlbumRoutes(app *fiber.App, albumService *services.AlbumService, jwtSecret string) {
	albums := app.Group("/api/albums")

	// 🔓 Public routes
	albums.Get("/", albumService.GetAllAlbums)
	albums.Get("/generation/:generation", albumService.GetAlbumsByGeneration)
	albums.Get("/slug/:slug", albumService.GetAlbumBySlug)
	albums.Get("/:id", albumService.GetAlbum)

	// 🔒 Admin-only mutations
	admin := albums.Group("/", middleware.RequireAuth(jwtSecret), middleware.RequireAdmin())
	admin.Post("/", albumService.CreateAlbum)
	admin.Put("/:id", albumService.UpdateAlbum)
	admin.Delete("/:id", albumService.DeleteAlbum)
	admin.Post("/:id/image", albumService.UploadAlbumImage)
}
