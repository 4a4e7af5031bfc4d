package services

import (
	"strings"
	"time"

	"jornada/internal/models"
)

type EntryRepository interface {
	Create(entry *models.TimeEntry) error
	FindByID(entryID uint) (models.TimeEntry, error)
	FindOpenForUser(userID uint) (models.TimeEntry, bool, error)
	ListByUserDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.TimeEntry, error)
	CloseWithTaskRecalc(entry *models.TimeEntry) error
}

type EntryTaskRepository interface {
	FindByID(taskID uint) (models.Task, error)
}

type EntryService struct {
	entries EntryRepository
	tasks   EntryTaskRepository
}

func NewEntryService(entries EntryRepository, tasks EntryTaskRepository) *EntryService {
	return &EntryService{entries: entries, tasks: tasks}
}

type StartEntryInput struct {
	TaskID      *uint
	Description string
	Category    string
	Billable    bool
}

// StartEntry opens the user's single timer, one per user regardless of
// task. Task-linked entries require the task to exist and, for workers, to
// be assigned to the actor; entries without a task are free time.
func (service *EntryService) StartEntry(actor Actor, input StartEntryInput, now time.Time, location *time.Location) (models.TimeEntry, error) {
	description := strings.TrimSpace(input.Description)
	if length := len([]rune(description)); length < models.EntryDescriptionMinLength || length > models.EntryDescriptionMaxLength {
		return models.TimeEntry{}, &DomainError{
			Kind:    ErrValidation,
			Message: "description must be between 3 and 500 characters",
			Fields:  []string{"description"},
		}
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = models.EntryCategoryOther
	}
	if !models.ValidEntryCategory(category) {
		return models.TimeEntry{}, &DomainError{
			Kind:    ErrValidation,
			Message: "unknown category",
			Fields:  []string{"category"},
		}
	}

	open, found, err := service.entries.FindOpenForUser(actor.ID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if found {
		return models.TimeEntry{}, &DomainError{
			Kind:     ErrConflict,
			Message:  "a time entry is already running",
			RecordID: open.ID,
		}
	}

	if input.TaskID != nil {
		task, err := service.tasks.FindByID(*input.TaskID)
		if err != nil {
			if isRecordNotFound(err) {
				return models.TimeEntry{}, &DomainError{Kind: ErrNotFound, Message: "task not found"}
			}
			return models.TimeEntry{}, err
		}
		if actor.IsWorker() && (task.AssignedToID == nil || *task.AssignedToID != actor.ID) {
			return models.TimeEntry{}, &DomainError{
				Kind:    ErrForbidden,
				Message: "task is not assigned to you",
			}
		}
	}

	entry := models.TimeEntry{
		UserID:      actor.ID,
		TaskID:      input.TaskID,
		StartTime:   now,
		Description: description,
		WorkDate:    DateAtLocation(now, location),
		Billable:    input.Billable,
		Category:    category,
		IsFreeTime:  input.TaskID == nil,
	}
	if err := service.entries.Create(&entry); err != nil {
		if isUniqueViolation(err) {
			return models.TimeEntry{}, &DomainError{
				Kind:    ErrConflict,
				Message: "a time entry is already running",
			}
		}
		return models.TimeEntry{}, err
	}
	return entry, nil
}

// StopEntry closes the entry, derives its whole-minute duration and, for
// task-linked entries, re-sums the task's actual hours in the same
// transaction. Stopping an already-closed entry fails.
func (service *EntryService) StopEntry(entryID uint, actor Actor, now time.Time) (models.TimeEntry, error) {
	entry, err := service.entries.FindByID(entryID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.TimeEntry{}, &DomainError{Kind: ErrNotFound, Message: "time entry not found"}
		}
		return models.TimeEntry{}, err
	}
	if entry.UserID != actor.ID {
		return models.TimeEntry{}, &DomainError{
			Kind:    ErrForbidden,
			Message: "time entry belongs to another user",
		}
	}
	if !entry.Open() {
		return models.TimeEntry{}, &DomainError{
			Kind:     ErrInvalidState,
			Message:  "time entry is already closed",
			RecordID: entry.ID,
		}
	}

	endTime := now
	entry.EndTime = &endTime
	entry.DurationMinutes = EntryMinutes(entry.StartTime, endTime)
	if err := service.entries.CloseWithTaskRecalc(&entry); err != nil {
		return models.TimeEntry{}, err
	}
	return entry, nil
}

func (service *EntryService) ActiveEntry(userID uint) (models.TimeEntry, bool, error) {
	return service.entries.FindOpenForUser(userID)
}

func (service *EntryService) EntriesForDay(userID uint, day time.Time, location *time.Location) ([]models.TimeEntry, error) {
	dayStart, dayEnd := DayRange(day, location)
	return service.entries.ListByUserDayRange(userID, dayStart, dayEnd)
}
