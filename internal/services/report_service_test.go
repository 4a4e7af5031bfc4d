package services

import (
	"errors"
	"testing"
	"time"

	"jornada/internal/models"

	"gorm.io/gorm"
)

type reportEntryRepositoryStub struct {
	entries []models.TimeEntry

	gotFrom time.Time
	gotTo   time.Time
}

func (stub *reportEntryRepositoryStub) ListByUserRange(userID uint, fromStart time.Time, toEnd time.Time) ([]models.TimeEntry, error) {
	stub.gotFrom = fromStart
	stub.gotTo = toEnd

	entries := make([]models.TimeEntry, 0)
	for _, entry := range stub.entries {
		if entry.UserID != userID {
			continue
		}
		if entry.WorkDate.Before(fromStart) || !entry.WorkDate.Before(toEnd) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (stub *reportEntryRepositoryStub) ListByTasks(taskIDs []uint) ([]models.TimeEntry, error) {
	wanted := make(map[uint]struct{}, len(taskIDs))
	for _, taskID := range taskIDs {
		wanted[taskID] = struct{}{}
	}
	entries := make([]models.TimeEntry, 0)
	for _, entry := range stub.entries {
		if entry.TaskID == nil {
			continue
		}
		if _, ok := wanted[*entry.TaskID]; ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type reportSessionRepositoryStub struct {
	sessions []models.ClockSession
}

func (stub *reportSessionRepositoryStub) ListClosedByUserRange(userID uint, fromStart time.Time, toEnd time.Time) ([]models.ClockSession, error) {
	sessions := make([]models.ClockSession, 0)
	for _, session := range stub.sessions {
		if session.UserID != userID || session.Open() {
			continue
		}
		if session.WorkDate.Before(fromStart) || !session.WorkDate.Before(toEnd) {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

type reportTaskRepositoryStub struct {
	tasks []models.Task
}

func (stub *reportTaskRepositoryStub) List(string, string, *uint, *uint) ([]models.Task, error) {
	return stub.tasks, nil
}

func (stub *reportTaskRepositoryStub) ListAssignedTo(userID uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	for _, task := range stub.tasks {
		if task.AssignedToID != nil && *task.AssignedToID == userID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

type reportUserRepositoryStub struct {
	users   map[uint]models.User
	workers []models.User
}

func (stub *reportUserRepositoryStub) FindByID(userID uint) (models.User, error) {
	user, ok := stub.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (stub *reportUserRepositoryStub) ListActiveWorkers() ([]models.User, error) {
	return stub.workers, nil
}

func workDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestWeeklyReportGroupsEntriesByWorkDate(t *testing.T) {
	entries := &reportEntryRepositoryStub{entries: []models.TimeEntry{
		{UserID: 7, WorkDate: workDay(2026, time.February, 16), DurationMinutes: 90},
		{UserID: 7, WorkDate: workDay(2026, time.February, 18), DurationMinutes: 30},
		{UserID: 8, WorkDate: workDay(2026, time.February, 16), DurationMinutes: 480},
	}}
	service := NewReportService(entries, &reportSessionRepositoryStub{}, &reportTaskRepositoryStub{}, &reportUserRepositoryStub{})

	// Wednesday 2026-02-18; the Sunday-start week runs 02-15 through 02-21.
	reference := time.Date(2026, time.February, 18, 14, 0, 0, 0, time.UTC)
	report, err := service.WeeklyReport(Actor{ID: 7, Role: models.RoleWorker}, 7, reference, time.UTC)
	if err != nil {
		t.Fatalf("WeeklyReport() unexpected error: %v", err)
	}

	if !report.WeekStart.Equal(workDay(2026, time.February, 15)) {
		t.Fatalf("week start = %v, want 2026-02-15", report.WeekStart)
	}
	if !report.WeekEnd.Equal(workDay(2026, time.February, 21)) {
		t.Fatalf("week end = %v, want 2026-02-21", report.WeekEnd)
	}
	if !entries.gotTo.Equal(workDay(2026, time.February, 22)) {
		t.Fatalf("query upper bound = %v, want exclusive 2026-02-22", entries.gotTo)
	}

	if len(report.Days) != 2 {
		t.Fatalf("expected 2 day groups, got %d", len(report.Days))
	}
	if report.Days[0].TotalMinutes != 90 || report.Days[0].TotalHours != 1.5 {
		t.Fatalf("Monday group = %+v, want 90 minutes / 1.5 hours", report.Days[0])
	}
	if report.Days[1].TotalMinutes != 30 || report.Days[1].TotalHours != 0.5 {
		t.Fatalf("Wednesday group = %+v, want 30 minutes / 0.5 hours", report.Days[1])
	}
	if report.Days[0].EntryCount != 1 || report.Days[1].EntryCount != 1 {
		t.Fatalf("entry counts = %d/%d, want 1/1", report.Days[0].EntryCount, report.Days[1].EntryCount)
	}

	if report.TotalMinutes != 120 {
		t.Fatalf("total minutes = %d, want 120", report.TotalMinutes)
	}
	if report.TotalHours != 2.0 {
		t.Fatalf("total hours = %v, want 2.0", report.TotalHours)
	}
	if report.AvgHoursPerDay != 0.3 {
		t.Fatalf("avg hours per day = %v, want 0.3", report.AvgHoursPerDay)
	}
}

func TestWeeklyReportOfOtherUserIsManagerOnly(t *testing.T) {
	users := &reportUserRepositoryStub{users: map[uint]models.User{
		8: {ID: 8, Name: "Colleague", Role: models.RoleWorker, Active: true},
	}}
	service := NewReportService(&reportEntryRepositoryStub{}, &reportSessionRepositoryStub{}, &reportTaskRepositoryStub{}, users)

	_, err := service.WeeklyReport(Actor{ID: 7, Role: models.RoleWorker}, 8, time.Now(), time.UTC)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for worker, got %v", err)
	}

	if _, err := service.WeeklyReport(Actor{ID: 1, Role: models.RoleManager}, 8, time.Now(), time.UTC); err != nil {
		t.Fatalf("WeeklyReport() as manager unexpected error: %v", err)
	}

	_, err = service.WeeklyReport(Actor{ID: 1, Role: models.RoleManager}, 99, time.Now(), time.UTC)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestEfficiencyScoreTiers(t *testing.T) {
	testCases := []struct {
		name   string
		inputs EfficiencyInputs
		want   int
	}{
		{
			name: "estimate versus actual",
			inputs: EfficiencyInputs{
				EstimatedTasks:    2,
				EstimatedHoursSum: 10,
				TasksWithEntries:  2,
				EntryHoursOnTasks: 8,
			},
			want: 125,
		},
		{
			name: "estimate versus actual is uncapped",
			inputs: EfficiencyInputs{
				EstimatedTasks:    1,
				EstimatedHoursSum: 30,
				TasksWithEntries:  1,
				EntryHoursOnTasks: 10,
			},
			want: 300,
		},
		{
			name: "estimates without entries fall back to attendance",
			inputs: EfficiencyInputs{
				EstimatedTasks:    3,
				EstimatedHoursSum: 12,
				CompletedTasks:    6,
				AttendanceHours:   12,
			},
			want: 100,
		},
		{
			name: "attendance productivity at baseline",
			inputs: EfficiencyInputs{
				CompletedTasks:  6,
				AttendanceHours: 12,
			},
			want: 100,
		},
		{
			name: "attendance productivity capped at 200",
			inputs: EfficiencyInputs{
				CompletedTasks:  24,
				AttendanceHours: 8,
			},
			want: 200,
		},
		{
			name: "completions without any time data score flat 80",
			inputs: EfficiencyInputs{
				CompletedTasks: 2,
			},
			want: 80,
		},
		{
			name:   "nothing at all scores zero",
			inputs: EfficiencyInputs{},
			want:   0,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := EfficiencyScore(testCase.inputs); got != testCase.want {
				t.Fatalf("EfficiencyScore() = %d, want %d", got, testCase.want)
			}
		})
	}
}

func TestRankTeamMembersDropsIdleAndOrdersByWeightedScore(t *testing.T) {
	members := []MemberStats{
		{UserID: 1, Name: "Idle"},
		{UserID: 2, Name: "Busy", CompletedTasks: 2, TotalHours: 20, Efficiency: 100},
		{UserID: 3, Name: "Star", CompletedTasks: 10, TotalHours: 20, Efficiency: 100},
	}

	ranked := RankTeamMembers(members)
	if len(ranked) != 2 {
		t.Fatalf("expected idle member dropped, got %d ranked", len(ranked))
	}
	if ranked[0].UserID != 3 || ranked[1].UserID != 2 {
		t.Fatalf("ranking = [%d %d], want [3 2]", ranked[0].UserID, ranked[1].UserID)
	}
}

func TestRankTeamMembersNearTieFallsBackToCompletedTasks(t *testing.T) {
	// Weighted difference is 0.05, inside the tie epsilon, so the raw
	// completed-task count decides.
	members := []MemberStats{
		{UserID: 1, Name: "Long hours", CompletedTasks: 4, TotalHours: 12.25, Efficiency: 100},
		{UserID: 2, Name: "More done", CompletedTasks: 5, TotalHours: 10, Efficiency: 100},
	}

	ranked := RankTeamMembers(members)
	if ranked[0].UserID != 2 {
		t.Fatalf("expected member with more completed tasks first, got %d", ranked[0].UserID)
	}
}

func TestRankTeamMembersKeepsPendingHeavyMembersBehind(t *testing.T) {
	members := []MemberStats{
		{UserID: 1, Name: "Backlog", CompletedTasks: 3, TotalHours: 16, Efficiency: 90, PendingTasks: 8},
		{UserID: 2, Name: "Closer", CompletedTasks: 3, TotalHours: 16, Efficiency: 90, PendingTasks: 0},
	}

	ranked := RankTeamMembers(members)
	if ranked[0].UserID != 2 {
		t.Fatalf("expected member without pending backlog first, got %d", ranked[0].UserID)
	}
}

func TestTeamStatsAggregatesActiveWorkers(t *testing.T) {
	anaID := uint(7)
	boID := uint(8)

	rangeStart := workDay(2026, time.February, 15)
	inRange := time.Date(2026, time.February, 17, 16, 0, 0, 0, time.UTC)
	beforeRange := time.Date(2026, time.February, 10, 16, 0, 0, 0, time.UTC)

	tasks := &reportTaskRepositoryStub{tasks: []models.Task{
		{ID: 1, AssignedToID: &anaID, Status: models.TaskStatusCompleted, CompletedAt: &inRange, EstimatedHours: floatPointer(4), Priority: models.TaskPriorityHigh},
		{ID: 2, AssignedToID: &anaID, Status: models.TaskStatusInProgress, EstimatedHours: floatPointer(6), Priority: models.TaskPriorityMedium},
		{ID: 3, AssignedToID: &boID, Status: models.TaskStatusCompleted, CompletedAt: &beforeRange, Priority: models.TaskPriorityMedium},
		{ID: 4, AssignedToID: &boID, Status: models.TaskStatusPending, Priority: models.TaskPriorityLow},
		{ID: 5, Status: models.TaskStatusPending, Priority: models.TaskPriorityMedium},
	}}
	entries := &reportEntryRepositoryStub{entries: []models.TimeEntry{
		{UserID: 7, TaskID: uintPointer(1), WorkDate: workDay(2026, time.February, 16), DurationMinutes: 240},
		{UserID: 7, TaskID: uintPointer(2), WorkDate: workDay(2026, time.February, 17), DurationMinutes: 120},
	}}
	end16 := time.Date(2026, time.February, 16, 17, 0, 0, 0, time.UTC)
	end17 := time.Date(2026, time.February, 17, 17, 0, 0, 0, time.UTC)
	sessions := &reportSessionRepositoryStub{sessions: []models.ClockSession{
		{UserID: 7, WorkDate: workDay(2026, time.February, 16), EndTime: &end16, Hours: 4},
		{UserID: 7, WorkDate: workDay(2026, time.February, 17), EndTime: &end17, Hours: 4},
		{UserID: 8, WorkDate: workDay(2026, time.February, 17), EndTime: &end17, Hours: 5},
	}}
	users := &reportUserRepositoryStub{workers: []models.User{
		{ID: 7, Name: "Ana", Role: models.RoleWorker, Active: true},
		{ID: 8, Name: "Bo", Role: models.RoleWorker, Active: true},
		{ID: 9, Name: "Cy", Role: models.RoleWorker, Active: true},
	}}

	service := NewReportService(entries, sessions, tasks, users)
	now := time.Date(2026, time.February, 18, 9, 0, 0, 0, time.UTC)

	stats, err := service.TeamStats(Actor{ID: 1, Role: models.RoleManager}, PeriodWeek, now, time.UTC)
	if err != nil {
		t.Fatalf("TeamStats() unexpected error: %v", err)
	}

	if !stats.RangeStart.Equal(rangeStart) {
		t.Fatalf("range start = %v, want %v", stats.RangeStart, rangeStart)
	}
	if len(stats.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(stats.Members))
	}

	byID := make(map[uint]MemberStats, len(stats.Members))
	for _, member := range stats.Members {
		byID[member.UserID] = member
	}

	ana := byID[7]
	if ana.CompletedTasks != 1 || ana.ActiveTasks != 1 || ana.PendingTasks != 0 {
		t.Fatalf("Ana task counts = %+v", ana)
	}
	if ana.TotalHours != 8.0 {
		t.Fatalf("Ana hours = %v, want 8.0", ana.TotalHours)
	}
	// Estimated 10h against 6h of logged entries.
	if ana.Efficiency != 167 {
		t.Fatalf("Ana efficiency = %d, want 167", ana.Efficiency)
	}

	bo := byID[8]
	if bo.CompletedTasks != 0 {
		t.Fatalf("Bo completed = %d, completions before the range must not count", bo.CompletedTasks)
	}
	if bo.TotalHours != 5.0 {
		t.Fatalf("Bo hours = %v, want 5.0", bo.TotalHours)
	}

	if stats.TotalHours != 13.0 {
		t.Fatalf("team hours = %v, want 13.0", stats.TotalHours)
	}
	if stats.CompletedTasks != 1 {
		t.Fatalf("team completed = %d, want 1", stats.CompletedTasks)
	}

	if stats.StatusCounts[models.TaskStatusPending] != 2 || stats.StatusCounts[models.TaskStatusCompleted] != 2 {
		t.Fatalf("status counts = %#v", stats.StatusCounts)
	}
	if stats.PriorityCounts[models.TaskPriorityMedium] != 3 {
		t.Fatalf("priority counts = %#v", stats.PriorityCounts)
	}

	// Cy has no activity at all and is dropped from the ranking.
	if len(stats.TopPerformers) != 2 {
		t.Fatalf("expected 2 top performers, got %d", len(stats.TopPerformers))
	}
	if stats.TopPerformers[0].UserID != 7 {
		t.Fatalf("top performer = %d, want Ana", stats.TopPerformers[0].UserID)
	}
}

func TestTeamStatsIsManagerOnly(t *testing.T) {
	service := NewReportService(&reportEntryRepositoryStub{}, &reportSessionRepositoryStub{}, &reportTaskRepositoryStub{}, &reportUserRepositoryStub{})

	_, err := service.TeamStats(Actor{ID: 7, Role: models.RoleWorker}, PeriodWeek, time.Now(), time.UTC)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTeamStatsRejectsUnknownPeriod(t *testing.T) {
	service := NewReportService(&reportEntryRepositoryStub{}, &reportSessionRepositoryStub{}, &reportTaskRepositoryStub{}, &reportUserRepositoryStub{})

	_, err := service.TeamStats(Actor{ID: 1, Role: models.RoleManager}, "decade", time.Now(), time.UTC)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
