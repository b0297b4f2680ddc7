package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"offboarding-backend/internal/dashboard"
	"offboarding-backend/internal/usecase"
	"offboarding-backend/internal/workflow"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type OffboardingHandler struct {
	usecase *usecase.OffboardingUsecase
}

func NewOffboardingHandler(u *usecase.OffboardingUsecase) *OffboardingHandler {
	return &OffboardingHandler{usecase: u}
}

// Create handles the HR form submit.
func (h *OffboardingHandler) Create(c *fiber.Ctx) error {
	fields, err := parseFields(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body: " + err.Error()})
	}

	res, err := h.usecase.Create(fields)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": res.Message(),
		"data":    res,
	})
}

// List is the dashboard: ?q= searches name/employee id, ?status= filters.
func (h *OffboardingHandler) List(c *fiber.Ctx) error {
	rows := h.usecase.List(c.Query("q"), c.Query("status", dashboard.FilterAll))
	return c.JSON(fiber.Map{
		"data":  rows,
		"total": len(rows),
	})
}

// Open returns the stored request plus what the view should show. Read only.
func (h *OffboardingHandler) Open(c *fiber.Ctx) error {
	res, err := h.usecase.Open(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": res.Message(),
		"data":    res,
	})
}

func (h *OffboardingHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.usecase.Approve)
}

func (h *OffboardingHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, h.usecase.Reject)
}

func (h *OffboardingHandler) decide(c *fiber.Ctx, apply func(id, stage string, fields map[string]string) (workflow.Result, error)) error {
	stage := c.Locals("stage").(workflow.Stage)

	fields, err := parseFields(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body: " + err.Error()})
	}

	res, err := apply(c.Params("id"), stage.Key, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": res.Message(),
		"data":    res,
	})
}

func (h *OffboardingHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.usecase.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Request %s deleted", id)})
}

// Summary returns the printable report; ?format=text gives plain text.
func (h *OffboardingHandler) Summary(c *fiber.Ctx) error {
	s, err := h.usecase.Summary(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if c.Query("format") == "text" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(s.Text())
	}
	return c.JSON(fiber.Map{"data": s})
}

func respondError(c *fiber.Ctx, err error) error {
	var validation *workflow.ValidationError
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   validation.Error(),
			"missing": validation.Missing,
		})
	case errors.Is(err, usecase.ErrNotFound), errors.Is(err, workflow.ErrUnknownStage):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, workflow.ErrStageMismatch), errors.Is(err, workflow.ErrTerminal):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save request: " + err.Error()})
	}
}

// parseFields reads a flat field map from a JSON object or a urlencoded form.
// Numbers and booleans in JSON are accepted and kept as their text form.
func parseFields(c *fiber.Ctx) (map[string]string, error) {
	fields := make(map[string]string)

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationForm) {
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			fields[string(k)] = string(v)
		})
		return fields, nil
	}

	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return fields, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
		case string:
			fields[k] = t
		case bool:
			fields[k] = strconv.FormatBool(t)
		case float64:
			fields[k] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("field %q must be a string, number or boolean", k)
		}
	}
	return fields, nil
}
