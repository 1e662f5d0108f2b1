package meta

import "github.com/gofiber/fiber/v2"

func RegisterIndex(app *fiber.App) {
	app.Get("/api", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Potion Portal API v1",
			"links": fiber.Map{
				"status":   "/api/v1/status",
				"levels":   "/api/v1/levels",
				"matches":  "/api/v1/matches",
				"playback": "/api/v1/playback",
			},
		})
	})
}
