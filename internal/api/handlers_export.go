package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"jornada/internal/models"
	"jornada/internal/services"
)

// exportUserAndRange resolves whose entries to export and over which days.
// Workers export their own data; the manager may pass user_id. Empty from/to
// bounds leave that side of the range open.
func (handler *Handler) exportUserAndRange(c *fiber.Ctx) (uint, *time.Time, *time.Time, int, string) {
	user, ok := currentUser(c)
	if !ok || user == nil {
		return 0, nil, nil, fiber.StatusUnauthorized, "unauthorized"
	}

	targetID := user.ID
	requested, err := parseOptionalUintQuery(c.Query("user_id"))
	if err != nil {
		return 0, nil, nil, fiber.StatusBadRequest, "invalid user id"
	}
	if requested != nil && *requested != user.ID {
		if user.Role != models.RoleManager {
			return 0, nil, nil, fiber.StatusForbidden, "manager access required"
		}
		targetID = *requested
	}

	from, err := parseOptionalDayQuery(c.Query("from"), handler.location)
	if err != nil {
		return 0, nil, nil, fiber.StatusBadRequest, "invalid from date"
	}
	to, err := parseOptionalDayQuery(c.Query("to"), handler.location)
	if err != nil {
		return 0, nil, nil, fiber.StatusBadRequest, "invalid to date"
	}
	if from != nil && to != nil && to.Before(*from) {
		return 0, nil, nil, fiber.StatusBadRequest, "invalid range"
	}

	return targetID, from, to, 0, ""
}

func (handler *Handler) ExportEntriesCSV(c *fiber.Ctx) error {
	targetID, from, to, status, message := handler.exportUserAndRange(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	handler.ensureDependencies()
	rows, err := handler.exportService.BuildCSVRows(targetID, from, to, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch entries")
	}
	now := handler.now()

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, row := range rows {
		if err := writer.Write(row.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportEntriesJSON(c *fiber.Ctx) error {
	targetID, from, to, status, message := handler.exportUserAndRange(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	handler.ensureDependencies()
	entries, err := handler.exportService.BuildJSONEntries(targetID, from, to, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch entries")
	}
	now := handler.now()

	payload := fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"entries":     entries,
	}
	serialized, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportEntriesSummary(c *fiber.Ctx) error {
	targetID, from, to, status, message := handler.exportUserAndRange(c)
	if status != 0 {
		return apiError(c, status, message)
	}

	handler.ensureDependencies()
	summary, err := handler.exportService.BuildSummary(targetID, from, to, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch entries")
	}

	return c.JSON(fiber.Map{
		"total_entries":    summary.TotalEntries,
		"open_entries":     summary.OpenEntries,
		"total_minutes":    summary.TotalMinutes,
		"total_hours":      summary.TotalHours,
		"billable_minutes": summary.BillableMinutes,
		"has_data":         summary.HasData,
		"date_from":        summary.DateFrom,
		"date_to":          summary.DateTo,
	})
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("jornada-entries-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
