package api

import (
	"github.com/gofiber/fiber/v2"

	"jornada/internal/services"
)

func (handler *Handler) ClockIn(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	session, err := handler.clockService.ClockIn(user.ID, handler.now(), handler.location)
	if err != nil {
		return respondDomainError(c, err, "failed to clock in")
	}

	return c.Status(fiber.StatusCreated).JSON(buildSessionView(session))
}

func (handler *Handler) ClockOut(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := clockOutInput{}
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	session, err := handler.clockService.ClockOut(user.ID, input.BreakMinutes, handler.now())
	if err != nil {
		return respondDomainError(c, err, "failed to clock out")
	}

	return c.JSON(buildSessionView(session))
}

func (handler *Handler) ClockStatus(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.ensureDependencies()
	session, found, err := handler.clockService.OpenSession(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch clock status")
	}
	if !found {
		return c.JSON(fiber.Map{"open": false})
	}

	return c.JSON(fiber.Map{
		"open":       true,
		"session":    buildSessionView(session),
		"live_hours": services.RoundHours1(services.LiveSessionHours(session, handler.now())),
	})
}

func (handler *Handler) ClockDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := handler.now()
	day, err := parseDayQuery(c.Query("date"), now, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	handler.ensureDependencies()
	sessions, err := handler.clockService.SessionsForDay(user.ID, day, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch sessions")
	}
	totalHours, err := handler.clockService.TotalHoursForDay(user.ID, day, now, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch sessions")
	}

	return c.JSON(fiber.Map{
		"date":        day.Format("2006-01-02"),
		"sessions":    buildSessionViews(sessions),
		"total_hours": totalHours,
	})
}

func (handler *Handler) ManualSession(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := manualSessionInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.UserID == 0 {
		return apiError(c, fiber.StatusBadRequest, "user_id is required")
	}
	start, err := parseDateTimeValue(input.Start, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid start time")
	}
	end, err := parseDateTimeValue(input.End, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid end time")
	}

	handler.ensureDependencies()
	session, err := handler.clockService.AddManualSession(actor, services.ManualSessionInput{
		UserID:       input.UserID,
		StartTime:    start,
		EndTime:      end,
		BreakMinutes: input.BreakMinutes,
	}, handler.location)
	if err != nil {
		return respondDomainError(c, err, "failed to add session")
	}

	return c.Status(fiber.StatusCreated).JSON(buildSessionView(session))
}
