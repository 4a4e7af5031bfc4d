package services

import (
	"math"
	"strings"
	"time"

	"jornada/internal/models"
)

type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(taskID uint) (models.Task, error)
	Save(task *models.Task) error
	Delete(taskID uint) error
	List(status string, priority string, assignedToID *uint, visibleToUserID *uint) ([]models.Task, error)
	ClaimUnassigned(taskID uint, userID uint) (int64, error)
}

type TaskEntryRepository interface {
	CountOpenForTask(taskID uint) (int64, error)
}

type TaskUserRepository interface {
	FindByID(userID uint) (models.User, error)
}

type TaskService struct {
	tasks   TaskRepository
	entries TaskEntryRepository
	users   TaskUserRepository
}

func NewTaskService(tasks TaskRepository, entries TaskEntryRepository, users TaskUserRepository) *TaskService {
	return &TaskService{tasks: tasks, entries: entries, users: users}
}

// TaskProgress is the completion percentage shown for a task, always within
// [0, 100]. Completed tasks report 100 regardless of hours.
func TaskProgress(task models.Task) int {
	if task.Status == models.TaskStatusCompleted {
		return 100
	}
	if task.EstimatedHours == nil || *task.EstimatedHours <= 0 {
		return 0
	}
	percent := int(math.Round(task.ActualHours / *task.EstimatedHours * 100))
	if percent > 100 {
		return 100
	}
	return percent
}

func TaskOverdue(task models.Task, now time.Time) bool {
	return task.DueDate != nil && task.Status != models.TaskStatusCompleted && task.DueDate.Before(now)
}

func validTaskTransition(from string, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case models.TaskStatusPending:
		return to == models.TaskStatusInProgress || to == models.TaskStatusCompleted || to == models.TaskStatusCancelled
	case models.TaskStatusInProgress:
		return to == models.TaskStatusCompleted || to == models.TaskStatusCancelled
	case models.TaskStatusCompleted:
		return to == models.TaskStatusInProgress
	default:
		return false
	}
}

type TaskCreateInput struct {
	Title          string
	Description    string
	AssignedToID   *uint
	Priority       string
	EstimatedHours *float64
	DueDate        *time.Time
}

// CreateTask creates a task. The manager may assign anyone and the task
// starts pending; workers may only create free-activity tasks for
// themselves, which come back self-assigned and already in progress.
func (service *TaskService) CreateTask(actor Actor, input TaskCreateInput) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, &DomainError{
			Kind:    ErrValidation,
			Message: "title is required",
			Fields:  []string{"title"},
		}
	}

	priority := strings.TrimSpace(input.Priority)
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		return models.Task{}, &DomainError{
			Kind:    ErrValidation,
			Message: "unknown priority",
			Fields:  []string{"priority"},
		}
	}
	if input.EstimatedHours != nil && *input.EstimatedHours < 0 {
		return models.Task{}, &DomainError{
			Kind:    ErrValidation,
			Message: "estimated hours cannot be negative",
			Fields:  []string{"estimated_hours"},
		}
	}

	assignedToID := input.AssignedToID
	status := models.TaskStatusPending
	if actor.IsWorker() {
		if assignedToID != nil && *assignedToID != actor.ID {
			return models.Task{}, &DomainError{
				Kind:    ErrForbidden,
				Message: "workers may only create tasks for themselves",
			}
		}
		ownID := actor.ID
		assignedToID = &ownID
		status = models.TaskStatusInProgress
	}
	if assignedToID != nil {
		if err := service.requireActiveUser(*assignedToID); err != nil {
			return models.Task{}, err
		}
	}

	task := models.Task{
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		CreatedByID:    actor.ID,
		AssignedToID:   assignedToID,
		Status:         status,
		Priority:       priority,
		EstimatedHours: input.EstimatedHours,
		DueDate:        input.DueDate,
	}
	if err := service.tasks.Create(&task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// GetTask loads one task, applying the worker visibility rule: workers only
// ever observe tasks that are unassigned or assigned to themselves.
func (service *TaskService) GetTask(actor Actor, taskID uint) (models.Task, error) {
	task, err := service.tasks.FindByID(taskID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Task{}, &DomainError{Kind: ErrNotFound, Message: "task not found"}
		}
		return models.Task{}, err
	}
	if actor.IsWorker() && task.AssignedToID != nil && *task.AssignedToID != actor.ID {
		return models.Task{}, &DomainError{Kind: ErrForbidden, Message: "task belongs to another user"}
	}
	return task, nil
}

func (service *TaskService) ListTasks(actor Actor, status string, priority string, assignedToID *uint) ([]models.Task, error) {
	if status != "" && !models.ValidTaskStatus(status) {
		return nil, &DomainError{Kind: ErrValidation, Message: "unknown status", Fields: []string{"status"}}
	}
	if priority != "" && !models.ValidTaskPriority(priority) {
		return nil, &DomainError{Kind: ErrValidation, Message: "unknown priority", Fields: []string{"priority"}}
	}

	var visibleTo *uint
	if actor.IsWorker() {
		ownID := actor.ID
		visibleTo = &ownID
	}
	return service.tasks.List(status, priority, assignedToID, visibleTo)
}

type TaskUpdateInput struct {
	Title              *string
	Description        *string
	AssignedToID       *uint
	Status             *string
	Priority           *string
	EstimatedHours     *float64
	DueDate            *time.Time
	CompletionComments *string
}

func (input TaskUpdateInput) changedFields() []string {
	fields := make([]string, 0, 8)
	if input.Title != nil {
		fields = append(fields, "title")
	}
	if input.Description != nil {
		fields = append(fields, "description")
	}
	if input.AssignedToID != nil {
		fields = append(fields, "assigned_to")
	}
	if input.Status != nil {
		fields = append(fields, "status")
	}
	if input.Priority != nil {
		fields = append(fields, "priority")
	}
	if input.EstimatedHours != nil {
		fields = append(fields, "estimated_hours")
	}
	if input.DueDate != nil {
		fields = append(fields, "due_date")
	}
	if input.CompletionComments != nil {
		fields = append(fields, "completion_comments")
	}
	return fields
}

// UpdateTask applies a partial update. Once a task is in progress, every
// field except status and completion comments is frozen; completing a task
// requires all of its time entries to be stopped first and stamps
// completed_at, which is cleared again if the task is later reopened.
func (service *TaskService) UpdateTask(actor Actor, taskID uint, input TaskUpdateInput, now time.Time) (models.Task, error) {
	task, err := service.tasks.FindByID(taskID)
	if err != nil {
		if isRecordNotFound(err) {
			return models.Task{}, &DomainError{Kind: ErrNotFound, Message: "task not found"}
		}
		return models.Task{}, err
	}

	if actor.IsWorker() {
		if task.AssignedToID == nil || *task.AssignedToID != actor.ID {
			return models.Task{}, &DomainError{
				Kind:    ErrForbidden,
				Message: "workers may only update tasks assigned to them",
			}
		}
		if input.AssignedToID != nil {
			return models.Task{}, &DomainError{
				Kind:    ErrForbidden,
				Message: "workers may not reassign tasks",
			}
		}
	}

	changed := input.changedFields()
	if len(changed) == 0 {
		return task, nil
	}

	if task.Status == models.TaskStatusInProgress {
		rejected := make([]string, 0, len(changed))
		for _, field := range changed {
			if field == "status" || field == "completion_comments" {
				continue
			}
			rejected = append(rejected, field)
		}
		if len(rejected) > 0 {
			return models.Task{}, &DomainError{
				Kind:    ErrInvalidState,
				Message: "fields are frozen while the task is in progress",
				Fields:  rejected,
			}
		}
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return models.Task{}, &DomainError{Kind: ErrValidation, Message: "title is required", Fields: []string{"title"}}
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		if !models.ValidTaskPriority(*input.Priority) {
			return models.Task{}, &DomainError{Kind: ErrValidation, Message: "unknown priority", Fields: []string{"priority"}}
		}
		task.Priority = *input.Priority
	}
	if input.EstimatedHours != nil {
		if *input.EstimatedHours < 0 {
			return models.Task{}, &DomainError{
				Kind:    ErrValidation,
				Message: "estimated hours cannot be negative",
				Fields:  []string{"estimated_hours"},
			}
		}
		task.EstimatedHours = input.EstimatedHours
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.AssignedToID != nil {
		if err := service.requireActiveUser(*input.AssignedToID); err != nil {
			return models.Task{}, err
		}
		task.AssignedToID = input.AssignedToID
	}
	if input.CompletionComments != nil {
		task.CompletionComments = strings.TrimSpace(*input.CompletionComments)
	}

	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return models.Task{}, &DomainError{Kind: ErrValidation, Message: "unknown status", Fields: []string{"status"}}
		}
		if !validTaskTransition(task.Status, *input.Status) {
			return models.Task{}, &DomainError{
				Kind:    ErrInvalidState,
				Message: "invalid status transition",
				Fields:  []string{"status"},
			}
		}

		if *input.Status == models.TaskStatusCompleted && task.Status != models.TaskStatusCompleted {
			openEntries, err := service.entries.CountOpenForTask(task.ID)
			if err != nil {
				return models.Task{}, err
			}
			if openEntries > 0 {
				return models.Task{}, &DomainError{
					Kind:    ErrInvalidState,
					Message: "task has an open time entry, stop it before completing",
					Fields:  []string{"status"},
				}
			}
			completedAt := now
			task.CompletedAt = &completedAt
		}
		if *input.Status != models.TaskStatusCompleted && task.Status == models.TaskStatusCompleted {
			task.CompletedAt = nil
		}
		task.Status = *input.Status
	}

	if err := service.tasks.Save(&task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (service *TaskService) DeleteTask(actor Actor, taskID uint) error {
	if !actor.IsManager() {
		return &DomainError{Kind: ErrForbidden, Message: "only the manager may delete tasks"}
	}
	if _, err := service.tasks.FindByID(taskID); err != nil {
		if isRecordNotFound(err) {
			return &DomainError{Kind: ErrNotFound, Message: "task not found"}
		}
		return err
	}
	return service.tasks.Delete(taskID)
}

// SelfAssign claims an unassigned task for the actor and starts it in one
// atomic step: claiming a task is beginning it.
func (service *TaskService) SelfAssign(actor Actor, taskID uint) (models.Task, error) {
	claimed, err := service.tasks.ClaimUnassigned(taskID, actor.ID)
	if err != nil {
		return models.Task{}, err
	}
	if claimed == 0 {
		task, err := service.tasks.FindByID(taskID)
		if err != nil {
			if isRecordNotFound(err) {
				return models.Task{}, &DomainError{Kind: ErrNotFound, Message: "task not found"}
			}
			return models.Task{}, err
		}
		if task.AssignedToID != nil {
			return models.Task{}, &DomainError{
				Kind:     ErrInvalidState,
				Message:  "task is already assigned",
				Fields:   []string{"assigned_to"},
				RecordID: task.ID,
			}
		}
		return models.Task{}, &DomainError{
			Kind:    ErrInvalidState,
			Message: "task is closed",
			Fields:  []string{"status"},
		}
	}

	task, err := service.tasks.FindByID(taskID)
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (service *TaskService) requireActiveUser(userID uint) error {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if isRecordNotFound(err) {
			return &DomainError{Kind: ErrNotFound, Message: "user not found", Fields: []string{"assigned_to"}}
		}
		return err
	}
	if !user.Active {
		return &DomainError{
			Kind:    ErrValidation,
			Message: "user is deactivated",
			Fields:  []string{"assigned_to"},
		}
	}
	return nil
}
