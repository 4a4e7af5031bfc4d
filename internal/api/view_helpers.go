package api

import (
	"time"

	"jornada/internal/models"
	"jornada/internal/services"
)

type userView struct {
	ID                 uint      `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	Active             bool      `json:"active"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
}

type sessionView struct {
	ID           uint       `json:"id"`
	UserID       uint       `json:"user_id"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	WorkDate     string     `json:"work_date"`
	Hours        float64    `json:"hours"`
	BreakMinutes int        `json:"break_minutes"`
	Manual       bool       `json:"manual"`
	Open         bool       `json:"open"`
}

type entryView struct {
	ID              uint       `json:"id"`
	UserID          uint       `json:"user_id"`
	TaskID          *uint      `json:"task_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Description     string     `json:"description"`
	WorkDate        string     `json:"work_date"`
	Billable        bool       `json:"billable"`
	Category        string     `json:"category"`
	IsFreeTime      bool       `json:"is_free_time"`
	Open            bool       `json:"open"`
}

type taskView struct {
	ID                 uint       `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	CreatedByID        uint       `json:"created_by_id"`
	AssignedToID       *uint      `json:"assigned_to_id"`
	AssignedToName     string     `json:"assigned_to_name,omitempty"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	EstimatedHours     *float64   `json:"estimated_hours"`
	ActualHours        float64    `json:"actual_hours"`
	Progress           int        `json:"progress"`
	DueDate            *string    `json:"due_date"`
	Overdue            bool       `json:"overdue"`
	CompletedAt        *time.Time `json:"completed_at"`
	CompletionComments string     `json:"completion_comments,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func buildUserView(user models.User) userView {
	return userView{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		Role:               user.Role,
		Active:             user.Active,
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          user.CreatedAt,
	}
}

func buildUserViews(users []models.User) []userView {
	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, buildUserView(user))
	}
	return views
}

func buildSessionView(session models.ClockSession) sessionView {
	return sessionView{
		ID:           session.ID,
		UserID:       session.UserID,
		StartTime:    session.StartTime,
		EndTime:      session.EndTime,
		WorkDate:     session.WorkDate.Format("2006-01-02"),
		Hours:        session.Hours,
		BreakMinutes: session.BreakMinutes,
		Manual:       session.Manual,
		Open:         session.Open(),
	}
}

func buildSessionViews(sessions []models.ClockSession) []sessionView {
	views := make([]sessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, buildSessionView(session))
	}
	return views
}

func buildEntryView(entry models.TimeEntry) entryView {
	return entryView{
		ID:              entry.ID,
		UserID:          entry.UserID,
		TaskID:          entry.TaskID,
		StartTime:       entry.StartTime,
		EndTime:         entry.EndTime,
		DurationMinutes: entry.DurationMinutes,
		Description:     entry.Description,
		WorkDate:        entry.WorkDate.Format("2006-01-02"),
		Billable:        entry.Billable,
		Category:        entry.Category,
		IsFreeTime:      entry.IsFreeTime,
		Open:            entry.Open(),
	}
}

func buildEntryViews(entries []models.TimeEntry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, buildEntryView(entry))
	}
	return views
}

func buildTaskView(task models.Task, now time.Time) taskView {
	view := taskView{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		CreatedByID:        task.CreatedByID,
		AssignedToID:       task.AssignedToID,
		Status:             task.Status,
		Priority:           task.Priority,
		EstimatedHours:     task.EstimatedHours,
		ActualHours:        task.ActualHours,
		Progress:           services.TaskProgress(task),
		Overdue:            services.TaskOverdue(task, now),
		CompletedAt:        task.CompletedAt,
		CompletionComments: task.CompletionComments,
		CreatedAt:          task.CreatedAt,
	}
	if task.AssignedTo != nil {
		view.AssignedToName = task.AssignedTo.Name
	}
	if task.DueDate != nil {
		due := task.DueDate.Format("2006-01-02")
		view.DueDate = &due
	}
	return view
}

func buildTaskViews(tasks []models.Task, now time.Time) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, buildTaskView(task, now))
	}
	return views
}
