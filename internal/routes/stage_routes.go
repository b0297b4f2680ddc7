package routes

import (
	"offboarding-backend/internal/handler"
	"offboarding-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

func SetupStageRoutes(app *fiber.App, table workflow.Table) {
	hdl := handler.NewStageHandler(table)

	app.Get("/api/stages", hdl.GetAll)
}

// SetupHealthRoutes registers the liveness probe.
func SetupHealthRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})
}
