package middleware

import (
	"offboarding-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

// Stage only lets requests through whose :stage param names a decision stage
// of the table. The resolved stage is stored in Locals("stage").
func Stage(table workflow.Table) fiber.Handler {
	allowed := make(map[string]workflow.Stage)
	for _, s := range table.Stages {
		if s.IsDecision() {
			allowed[s.Key] = s
		}
	}

	return func(c *fiber.Ctx) error {
		key := c.Params("stage")
		stage, ok := allowed[key]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown stage: " + key})
		}
		c.Locals("stage", stage)
		return c.Next()
	}
}
