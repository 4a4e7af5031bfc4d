package services

import (
	"math"
	"sort"
	"time"

	"jornada/internal/models"
)

// Scoring constants. Reports from different deployments must stay
// comparable, so these never move to configuration.
const (
	completionsPerHourBaseline = 0.5
	maxProductivityScore       = 200
	flatCompletionScore        = 80
)

const (
	rankWeightCompleted  = 0.4
	rankWeightEfficiency = 0.3
	rankWeightHours      = 0.2
	rankWeightPending    = 0.1
	rankTieEpsilon       = 0.1
)

type ReportEntryRepository interface {
	ListByUserRange(userID uint, fromStart time.Time, toEnd time.Time) ([]models.TimeEntry, error)
	ListByTasks(taskIDs []uint) ([]models.TimeEntry, error)
}

type ReportSessionRepository interface {
	ListClosedByUserRange(userID uint, fromStart time.Time, toEnd time.Time) ([]models.ClockSession, error)
}

type ReportTaskRepository interface {
	List(status string, priority string, assignedToID *uint, visibleToUserID *uint) ([]models.Task, error)
	ListAssignedTo(userID uint) ([]models.Task, error)
}

type ReportUserRepository interface {
	FindByID(userID uint) (models.User, error)
	ListActiveWorkers() ([]models.User, error)
}

type ReportService struct {
	entries  ReportEntryRepository
	sessions ReportSessionRepository
	tasks    ReportTaskRepository
	users    ReportUserRepository
}

func NewReportService(entries ReportEntryRepository, sessions ReportSessionRepository, tasks ReportTaskRepository, users ReportUserRepository) *ReportService {
	return &ReportService{
		entries:  entries,
		sessions: sessions,
		tasks:    tasks,
		users:    users,
	}
}

type DayHours struct {
	Date         time.Time
	EntryCount   int
	TotalMinutes int
	TotalHours   float64
}

type WeeklyReport struct {
	UserID         uint
	WeekStart      time.Time
	WeekEnd        time.Time
	Days           []DayHours
	TotalMinutes   int
	TotalHours     float64
	AvgHoursPerDay float64
}

// WeeklyReport breaks a user's time entries down over the Sunday-start week
// containing the reference date. Entries group by their stored work date,
// days without entries are omitted.
func (service *ReportService) WeeklyReport(actor Actor, userID uint, reference time.Time, location *time.Location) (WeeklyReport, error) {
	if actor.ID != userID {
		if !actor.IsManager() {
			return WeeklyReport{}, &DomainError{
				Kind:    ErrForbidden,
				Message: "weekly reports of other users are manager only",
			}
		}
		if _, err := service.users.FindByID(userID); err != nil {
			if isRecordNotFound(err) {
				return WeeklyReport{}, &DomainError{Kind: ErrNotFound, Message: "user not found"}
			}
			return WeeklyReport{}, err
		}
	}

	weekStart, weekEndExclusive := WeekWindow(reference, location)
	entries, err := service.entries.ListByUserRange(userID, weekStart, weekEndExclusive)
	if err != nil {
		return WeeklyReport{}, err
	}

	report := WeeklyReport{
		UserID:    userID,
		WeekStart: weekStart,
		WeekEnd:   weekStart.AddDate(0, 0, 6),
		Days:      make([]DayHours, 0, 7),
	}

	dayIndex := make(map[string]int, 7)
	for _, entry := range entries {
		key := entry.WorkDate.Format("2006-01-02")
		index, seen := dayIndex[key]
		if !seen {
			report.Days = append(report.Days, DayHours{Date: entry.WorkDate})
			index = len(report.Days) - 1
			dayIndex[key] = index
		}
		report.Days[index].EntryCount++
		report.Days[index].TotalMinutes += entry.DurationMinutes
		report.TotalMinutes += entry.DurationMinutes
	}
	for index := range report.Days {
		report.Days[index].TotalHours = RoundHours1(MinutesToHours(report.Days[index].TotalMinutes))
	}

	report.TotalHours = RoundHours1(MinutesToHours(report.TotalMinutes))
	report.AvgHoursPerDay = RoundHours1(report.TotalHours / 7)
	return report, nil
}

type MemberStats struct {
	UserID         uint
	Name           string
	CompletedTasks int
	ActiveTasks    int
	PendingTasks   int
	TotalHours     float64
	Efficiency     int
}

type EfficiencyInputs struct {
	EstimatedTasks    int
	EstimatedHoursSum float64
	TasksWithEntries  int
	EntryHoursOnTasks float64
	CompletedTasks    int
	AttendanceHours   float64
}

// EfficiencyScore grades a worker with a three-tier fallback. Workers with
// estimated tasks that have logged entries are scored estimate-vs-actual,
// uncapped. Otherwise attendance-based productivity applies, with half a
// completed task per hour as the 100% baseline, capped at 200. Completed
// work with no time data at all earns a flat 80.
func EfficiencyScore(inputs EfficiencyInputs) int {
	if inputs.EstimatedTasks > 0 && inputs.TasksWithEntries > 0 && inputs.EntryHoursOnTasks > 0 {
		return int(math.Round(inputs.EstimatedHoursSum / inputs.EntryHoursOnTasks * 100))
	}
	if inputs.AttendanceHours > 0 {
		productivity := float64(inputs.CompletedTasks) / inputs.AttendanceHours
		score := math.Round(productivity / completionsPerHourBaseline * 100)
		if score > maxProductivityScore {
			score = maxProductivityScore
		}
		return int(score)
	}
	if inputs.CompletedTasks > 0 {
		return flatCompletionScore
	}
	return 0
}

// rankingScore compares two members pairwise, positive meaning a ranks
// above b.
func rankingScore(a MemberStats, b MemberStats) float64 {
	return rankWeightCompleted*float64(a.CompletedTasks-b.CompletedTasks) +
		rankWeightEfficiency*float64(a.Efficiency-b.Efficiency) +
		rankWeightHours*(a.TotalHours-b.TotalHours) +
		rankWeightPending*float64(b.PendingTasks-a.PendingTasks)
}

// RankTeamMembers orders members best first. Members with no completed
// tasks, no hours and no active tasks are dropped before sorting; pairs
// scoring within the tie epsilon fall back to completed-task count.
func RankTeamMembers(members []MemberStats) []MemberStats {
	ranked := make([]MemberStats, 0, len(members))
	for _, member := range members {
		if member.CompletedTasks == 0 && member.TotalHours == 0 && member.ActiveTasks == 0 {
			continue
		}
		ranked = append(ranked, member)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		score := rankingScore(ranked[i], ranked[j])
		if math.Abs(score) < rankTieEpsilon {
			return ranked[i].CompletedTasks > ranked[j].CompletedTasks
		}
		return score > 0
	})
	return ranked
}

type TeamStats struct {
	Period         string
	RangeStart     time.Time
	RangeEnd       time.Time
	Members        []MemberStats
	TotalHours     float64
	CompletedTasks int
	StatusCounts   map[string]int
	PriorityCounts map[string]int
	TopPerformers  []MemberStats
}

// TeamStats aggregates every active worker over the period. Attendance
// counts closed sessions only, open ones are excluded from this historical
// metric.
func (service *ReportService) TeamStats(actor Actor, period string, now time.Time, location *time.Location) (TeamStats, error) {
	if !actor.IsManager() {
		return TeamStats{}, &DomainError{Kind: ErrForbidden, Message: "team statistics are manager only"}
	}
	rangeStart, rangeEnd, err := PeriodRange(period, now, location)
	if err != nil {
		return TeamStats{}, err
	}

	workers, err := service.users.ListActiveWorkers()
	if err != nil {
		return TeamStats{}, err
	}

	stats := TeamStats{
		Period:         period,
		RangeStart:     rangeStart,
		RangeEnd:       rangeEnd,
		Members:        make([]MemberStats, 0, len(workers)),
		StatusCounts:   make(map[string]int),
		PriorityCounts: make(map[string]int),
	}

	totalHours := 0.0
	for _, worker := range workers {
		member, err := service.memberStats(worker, rangeStart, rangeEnd)
		if err != nil {
			return TeamStats{}, err
		}
		stats.Members = append(stats.Members, member)
		totalHours += member.TotalHours
		stats.CompletedTasks += member.CompletedTasks
	}
	stats.TotalHours = RoundHours1(totalHours)

	tasks, err := service.tasks.List("", "", nil, nil)
	if err != nil {
		return TeamStats{}, err
	}
	for _, task := range tasks {
		stats.StatusCounts[task.Status]++
		stats.PriorityCounts[task.Priority]++
	}

	ranked := RankTeamMembers(stats.Members)
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	stats.TopPerformers = ranked
	return stats, nil
}

func (service *ReportService) memberStats(worker models.User, rangeStart time.Time, rangeEnd time.Time) (MemberStats, error) {
	member := MemberStats{UserID: worker.ID, Name: worker.Name}

	tasks, err := service.tasks.ListAssignedTo(worker.ID)
	if err != nil {
		return MemberStats{}, err
	}

	inputs := EfficiencyInputs{}
	taskIDs := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
		switch task.Status {
		case models.TaskStatusCompleted:
			if task.CompletedAt != nil && !task.CompletedAt.Before(rangeStart) && task.CompletedAt.Before(rangeEnd) {
				member.CompletedTasks++
			}
		case models.TaskStatusInProgress:
			member.ActiveTasks++
		case models.TaskStatusPending:
			member.PendingTasks++
		}
		if task.EstimatedHours != nil && *task.EstimatedHours > 0 {
			inputs.EstimatedTasks++
			inputs.EstimatedHoursSum += *task.EstimatedHours
		}
	}

	sessions, err := service.sessions.ListClosedByUserRange(worker.ID, rangeStart, rangeEnd)
	if err != nil {
		return MemberStats{}, err
	}
	attendanceHours := 0.0
	for _, session := range sessions {
		attendanceHours += session.Hours
	}
	member.TotalHours = RoundHours1(attendanceHours)

	entries, err := service.entries.ListByTasks(taskIDs)
	if err != nil {
		return MemberStats{}, err
	}
	entryMinutes := 0
	tasksSeen := make(map[uint]struct{}, len(taskIDs))
	for _, entry := range entries {
		entryMinutes += entry.DurationMinutes
		if entry.TaskID != nil {
			tasksSeen[*entry.TaskID] = struct{}{}
		}
	}
	inputs.TasksWithEntries = len(tasksSeen)
	inputs.EntryHoursOnTasks = MinutesToHours(entryMinutes)
	inputs.CompletedTasks = member.CompletedTasks
	inputs.AttendanceHours = attendanceHours

	member.Efficiency = EfficiencyScore(inputs)
	return member, nil
}
