package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"jornada/internal/models"
)

const exportDateLayout = "2006-01-02"

var ExportCSVHeaders = []string{
	"Date",
	"Start",
	"End",
	"Minutes",
	"Hours",
	"Description",
	"Category",
	"Billable",
	"Free time",
	"Task ID",
	"Task",
}

type ExportEntryReader interface {
	ListByUserOptionalRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.TimeEntry, error)
}

type ExportTaskReader interface {
	ListByIDs(taskIDs []uint) ([]models.Task, error)
}

// ExportService renders a user's time entries for download. It reads entries
// over an optional day range and resolves the task titles referenced by them.
type ExportService struct {
	entries ExportEntryReader
	tasks   ExportTaskReader
}

type ExportSummary struct {
	TotalEntries    int
	OpenEntries     int
	TotalMinutes    int
	TotalHours      float64
	BillableMinutes int
	HasData         bool
	DateFrom        string
	DateTo          string
}

type ExportJSONEntry struct {
	Date            string  `json:"date"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	DurationMinutes int     `json:"duration_minutes"`
	Hours           float64 `json:"hours"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Billable        bool    `json:"billable"`
	FreeTime        bool    `json:"free_time"`
	TaskID          *uint   `json:"task_id,omitempty"`
	TaskTitle       string  `json:"task_title,omitempty"`
}

type ExportCSVRow struct {
	Date            string
	Start           string
	End             string
	DurationMinutes int
	Description     string
	Category        string
	Billable        bool
	FreeTime        bool
	TaskID          *uint
	TaskTitle       string
}

func NewExportService(entries ExportEntryReader, tasks ExportTaskReader) *ExportService {
	return &ExportService{
		entries: entries,
		tasks:   tasks,
	}
}

// LoadDataForRange fetches the entries inside the optional [from, to] day
// range together with a task-id to title map. Nil bounds mean the full
// history on that side.
func (service *ExportService) LoadDataForRange(userID uint, from *time.Time, to *time.Time, location *time.Location) ([]models.TimeEntry, map[uint]string, error) {
	var fromStart *time.Time
	var toEnd *time.Time
	if from != nil {
		start, _ := DayRange(*from, location)
		fromStart = &start
	}
	if to != nil {
		_, end := DayRange(*to, location)
		toEnd = &end
	}

	entries, err := service.entries.ListByUserOptionalRange(userID, fromStart, toEnd)
	if err != nil {
		return nil, nil, err
	}

	taskIDs := make([]uint, 0)
	seen := make(map[uint]struct{})
	for _, entry := range entries {
		if entry.TaskID == nil {
			continue
		}
		if _, ok := seen[*entry.TaskID]; ok {
			continue
		}
		seen[*entry.TaskID] = struct{}{}
		taskIDs = append(taskIDs, *entry.TaskID)
	}

	taskTitles := make(map[uint]string, len(taskIDs))
	if len(taskIDs) > 0 {
		tasks, err := service.tasks.ListByIDs(taskIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, task := range tasks {
			taskTitles[task.ID] = task.Title
		}
	}

	return entries, taskTitles, nil
}

func (service *ExportService) BuildSummary(userID uint, from *time.Time, to *time.Time, location *time.Location) (ExportSummary, error) {
	entries, _, err := service.LoadDataForRange(userID, from, to, location)
	if err != nil {
		return ExportSummary{}, err
	}
	if len(entries) == 0 {
		return ExportSummary{}, nil
	}

	summary := ExportSummary{
		TotalEntries: len(entries),
		HasData:      true,
	}

	first := entries[0].WorkDate
	last := entries[0].WorkDate
	for _, entry := range entries {
		if entry.WorkDate.Before(first) {
			first = entry.WorkDate
		}
		if entry.WorkDate.After(last) {
			last = entry.WorkDate
		}
		if entry.Open() {
			summary.OpenEntries++
			continue
		}
		summary.TotalMinutes += entry.DurationMinutes
		if entry.Billable {
			summary.BillableMinutes += entry.DurationMinutes
		}
	}

	summary.TotalHours = RoundHours1(MinutesToHours(summary.TotalMinutes))
	summary.DateFrom = DateAtLocation(first, location).Format(exportDateLayout)
	summary.DateTo = DateAtLocation(last, location).Format(exportDateLayout)
	return summary, nil
}

func (service *ExportService) BuildJSONEntries(userID uint, from *time.Time, to *time.Time, location *time.Location) ([]ExportJSONEntry, error) {
	entries, taskTitles, err := service.LoadDataForRange(userID, from, to, location)
	if err != nil {
		return nil, err
	}

	result := make([]ExportJSONEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, ExportJSONEntry{
			Date:            DateAtLocation(entry.WorkDate, location).Format(exportDateLayout),
			Start:           entry.StartTime.In(location).Format("15:04"),
			End:             exportEndClock(entry, location),
			DurationMinutes: entry.DurationMinutes,
			Hours:           MinutesToHours(entry.DurationMinutes),
			Description:     entry.Description,
			Category:        entry.Category,
			Billable:        entry.Billable,
			FreeTime:        entry.IsFreeTime,
			TaskID:          entry.TaskID,
			TaskTitle:       exportTaskTitle(entry.TaskID, taskTitles),
		})
	}
	return result, nil
}

func (service *ExportService) BuildCSVRows(userID uint, from *time.Time, to *time.Time, location *time.Location) ([]ExportCSVRow, error) {
	entries, taskTitles, err := service.LoadDataForRange(userID, from, to, location)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportCSVRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, ExportCSVRow{
			Date:            DateAtLocation(entry.WorkDate, location).Format(exportDateLayout),
			Start:           entry.StartTime.In(location).Format("15:04"),
			End:             exportEndClock(entry, location),
			DurationMinutes: entry.DurationMinutes,
			Description:     entry.Description,
			Category:        entry.Category,
			Billable:        entry.Billable,
			FreeTime:        entry.IsFreeTime,
			TaskID:          entry.TaskID,
			TaskTitle:       exportTaskTitle(entry.TaskID, taskTitles),
		})
	}
	return rows, nil
}

func (row ExportCSVRow) Columns() []string {
	return []string{
		row.Date,
		row.Start,
		row.End,
		strconv.Itoa(row.DurationMinutes),
		fmt.Sprintf("%.2f", MinutesToHours(row.DurationMinutes)),
		row.Description,
		row.Category,
		csvYesNo(row.Billable),
		csvYesNo(row.FreeTime),
		csvTaskID(row.TaskID),
		row.TaskTitle,
	}
}

func exportEndClock(entry models.TimeEntry, location *time.Location) string {
	if entry.EndTime == nil {
		return ""
	}
	return entry.EndTime.In(location).Format("15:04")
}

func exportTaskTitle(taskID *uint, taskTitles map[uint]string) string {
	if taskID == nil {
		return ""
	}
	return strings.TrimSpace(taskTitles[*taskID])
}

func csvYesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func csvTaskID(taskID *uint) string {
	if taskID == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*taskID), 10)
}
