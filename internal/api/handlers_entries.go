package api

import (
	"github.com/gofiber/fiber/v2"

	"jornada/internal/services"
)

func (handler *Handler) StartEntry(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := startEntryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	entry, err := handler.entryService.StartEntry(actor, services.StartEntryInput{
		TaskID:      input.TaskID,
		Description: input.Description,
		Category:    input.Category,
		Billable:    input.Billable,
	}, handler.now(), handler.location)
	if err != nil {
		return respondDomainError(c, err, "failed to start entry")
	}

	return c.Status(fiber.StatusCreated).JSON(buildEntryView(entry))
}

func (handler *Handler) StopEntry(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entryID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	handler.ensureDependencies()
	entry, err := handler.entryService.StopEntry(entryID, actor, handler.now())
	if err != nil {
		return respondDomainError(c, err, "failed to stop entry")
	}

	return c.JSON(buildEntryView(entry))
}

func (handler *Handler) ActiveEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	entry, found, err := handler.entryService.ActiveEntry(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch active entry")
	}
	if !found {
		return c.JSON(fiber.Map{"active": false})
	}

	return c.JSON(fiber.Map{
		"active": true,
		"entry":  buildEntryView(entry),
	})
}

func (handler *Handler) EntriesForDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDayQuery(c.Query("date"), handler.now(), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	handler.ensureDependencies()
	entries, err := handler.entryService.EntriesForDay(user.ID, day, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch entries")
	}

	return c.JSON(fiber.Map{
		"date":    day.Format("2006-01-02"),
		"entries": buildEntryViews(entries),
	})
}
