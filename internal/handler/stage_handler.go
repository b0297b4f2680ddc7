package handler

import (
	"offboarding-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type StageHandler struct {
	table workflow.Table
}

func NewStageHandler(table workflow.Table) *StageHandler {
	return &StageHandler{table: table}
}

// GetAll returns the stage table so a client can build its panels.
func (h *StageHandler) GetAll(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.table})
}
