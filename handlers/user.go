// handlers/user.go
package handlers

import (
	"errors"

	"card-collection-system/middleware"
	"card-collection-system/services"
	"card-collection-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, jwtSecret string) {
	users := app.Group("/api/users")

	// 🔓 Public: the full completion leaderboard
	users.Get("/ranking", func(c *fiber.Ctx) error {
		ranking, err := userService.GetRanking()
		if err != nil {
			return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get ranking")
		}
		return utils.Success(c, fiber.StatusOK, "Ranking retrieved successfully", ranking)
	})

	// 🔐 Authenticated routes
	secured := users.Group("/", middleware.RequireAuth(jwtSecret))

	secured.Get("/profile", func(c *fiber.Ctx) error {
		user, err := userService.GetUserByID(middleware.UserID(c))
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return utils.Fail(c, fiber.StatusNotFound, "User not found")
			}
			return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get profile")
		}
		return utils.Success(c, fiber.StatusOK, "Profile retrieved successfully", user)
	})

	secured.Put("/profile", func(c *fiber.Ctx) error {
		var input services.UpdateProfileInput
		if err := utils.ParseBody(c, &input); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, err.Error())
		}

		user, err := userService.UpdateProfile(middleware.UserID(c), input)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				return utils.Fail(c, fiber.StatusNotFound, "User not found")
			case errors.Is(err, services.ErrDuplicateUsername),
				errors.Is(err, services.ErrDuplicateEmail):
				return utils.Fail(c, fiber.StatusBadRequest, err.Error())
			default:
				return utils.Fail(c, fiber.StatusBadRequest, err.Error())
			}
		}
		return utils.Success(c, fiber.StatusOK, "Profile updated successfully", user)
	})

	secured.Get("/stats", func(c *fiber.Ctx) error {
		stats, err := userService.GetUserStats(middleware.UserID(c))
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return utils.Fail(c, fiber.StatusNotFound, "User not found")
			}
			return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get user statistics")
		}
		return utils.Success(c, fiber.StatusOK, "User stats retrieved successfully", stats)
	})

	// 🔒 Admin: list every account
	secured.Get("/", middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		allUsers, err := userService.GetAllUsers()
		if err != nil {
			return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get users")
		}
		return utils.Success(c, fiber.StatusOK, "Users retrieved successfully", allUsers)
	})
}
