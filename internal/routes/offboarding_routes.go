package routes

import (
	"offboarding-backend/internal/handler"
	"offboarding-backend/internal/middleware"
	"offboarding-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

func SetupOffboardingRoutes(app *fiber.App, uc *usecase.OffboardingUsecase) {
	hdl := handler.NewOffboardingHandler(uc)

	api := app.Group("/api/offboarding")

	// HR form + dashboard
	api.Post("/", hdl.Create)
	api.Get("/", hdl.List)
	api.Get("/:id", hdl.Open)
	api.Delete("/:id", hdl.Delete)
	api.Get("/:id/summary", hdl.Summary)

	// Approver panels
	stage := middleware.Stage(uc.Table())
	api.Post("/:id/approve/:stage", stage, hdl.Approve)
	api.Post("/:id/reject/:stage", stage, hdl.Reject)
}
