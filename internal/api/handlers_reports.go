package api

import (
	"github.com/gofiber/fiber/v2"

	"jornada/internal/services"
)

type dayHoursView struct {
	Date         string  `json:"date"`
	EntryCount   int     `json:"entry_count"`
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
}

type weeklyReportView struct {
	UserID         uint           `json:"user_id"`
	WeekStart      string         `json:"week_start"`
	WeekEnd        string         `json:"week_end"`
	Days           []dayHoursView `json:"days"`
	TotalMinutes   int            `json:"total_minutes"`
	TotalHours     float64        `json:"total_hours"`
	AvgHoursPerDay float64        `json:"avg_hours_per_day"`
}

type memberStatsView struct {
	UserID         uint    `json:"user_id"`
	Name           string  `json:"name"`
	CompletedTasks int     `json:"completed_tasks"`
	ActiveTasks    int     `json:"active_tasks"`
	PendingTasks   int     `json:"pending_tasks"`
	TotalHours     float64 `json:"total_hours"`
	Efficiency     int     `json:"efficiency"`
}

type teamStatsView struct {
	Period         string            `json:"period"`
	RangeStart     string            `json:"range_start"`
	RangeEnd       string            `json:"range_end"`
	Members        []memberStatsView `json:"members"`
	TotalHours     float64           `json:"total_hours"`
	CompletedTasks int               `json:"completed_tasks"`
	StatusCounts   map[string]int    `json:"status_counts"`
	PriorityCounts map[string]int    `json:"priority_counts"`
	TopPerformers  []memberStatsView `json:"top_performers"`
}

func buildWeeklyReportView(report services.WeeklyReport) weeklyReportView {
	days := make([]dayHoursView, 0, len(report.Days))
	for _, day := range report.Days {
		days = append(days, dayHoursView{
			Date:         day.Date.Format("2006-01-02"),
			EntryCount:   day.EntryCount,
			TotalMinutes: day.TotalMinutes,
			TotalHours:   day.TotalHours,
		})
	}
	return weeklyReportView{
		UserID:         report.UserID,
		WeekStart:      report.WeekStart.Format("2006-01-02"),
		WeekEnd:        report.WeekEnd.Format("2006-01-02"),
		Days:           days,
		TotalMinutes:   report.TotalMinutes,
		TotalHours:     report.TotalHours,
		AvgHoursPerDay: report.AvgHoursPerDay,
	}
}

func buildMemberStatsViews(members []services.MemberStats) []memberStatsView {
	views := make([]memberStatsView, 0, len(members))
	for _, member := range members {
		views = append(views, memberStatsView{
			UserID:         member.UserID,
			Name:           member.Name,
			CompletedTasks: member.CompletedTasks,
			ActiveTasks:    member.ActiveTasks,
			PendingTasks:   member.PendingTasks,
			TotalHours:     member.TotalHours,
			Efficiency:     member.Efficiency,
		})
	}
	return views
}

func (handler *Handler) WeeklyReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok || user == nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := handler.now()
	reference, err := parseDayQuery(c.Query("date"), now, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	targetID := user.ID
	requested, err := parseOptionalUintQuery(c.Query("user_id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if requested != nil {
		targetID = *requested
	}

	handler.ensureDependencies()
	actor := services.Actor{ID: user.ID, Role: user.Role}
	report, err := handler.reportService.WeeklyReport(actor, targetID, reference, handler.location)
	if err != nil {
		return respondDomainError(c, err, "failed to build report")
	}

	return c.JSON(buildWeeklyReportView(report))
}

func (handler *Handler) TeamReport(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	period := c.Query("period", services.PeriodWeek)

	handler.ensureDependencies()
	stats, err := handler.reportService.TeamStats(actor, period, handler.now(), handler.location)
	if err != nil {
		return respondDomainError(c, err, "failed to build report")
	}

	return c.JSON(teamStatsView{
		Period:         stats.Period,
		RangeStart:     stats.RangeStart.Format("2006-01-02"),
		RangeEnd:       stats.RangeEnd.Format("2006-01-02"),
		Members:        buildMemberStatsViews(stats.Members),
		TotalHours:     stats.TotalHours,
		CompletedTasks: stats.CompletedTasks,
		StatusCounts:   stats.StatusCounts,
		PriorityCounts: stats.PriorityCounts,
		TopPerformers:  buildMemberStatsViews(stats.TopPerformers),
	})
}
