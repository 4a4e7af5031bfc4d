package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jornada/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondDomainError maps service errors onto HTTP statuses. Frozen-field and
// open-entry violations carry a fields array so clients can highlight them.
func respondDomainError(c *fiber.Ctx, err error, fallback string) error {
	status := domainErrorStatus(err)
	if status == 0 {
		return apiError(c, fiber.StatusInternalServerError, fallback)
	}

	payload := fiber.Map{"error": err.Error()}
	if fields := services.ErrorFields(err); len(fields) > 0 {
		payload["fields"] = fields
	}
	if recordID := services.ErrorRecordID(err); recordID != 0 {
		payload["record_id"] = recordID
	}
	return c.Status(status).JSON(payload)
}

func domainErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidState):
		return fiber.StatusConflict
	default:
		return 0
	}
}
