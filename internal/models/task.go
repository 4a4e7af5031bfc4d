package models

import "time"

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

type Task struct {
	ID                 uint      `gorm:"primaryKey"`
	Title              string    `gorm:"not null"`
	Description        string
	CreatedByID        uint       `gorm:"not null;index"`
	AssignedToID       *uint      `gorm:"index"`
	Status             string     `gorm:"not null;default:pending"`
	Priority           string     `gorm:"not null;default:medium"`
	EstimatedHours     *float64
	ActualHours        float64    `gorm:"not null;default:0"`
	DueDate            *time.Time
	CompletedAt        *time.Time
	CompletionComments string
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time

	CreatedBy  User  `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	AssignedTo *User `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
}

func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

func ValidTaskPriority(priority string) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

// TerminalTaskStatus reports whether a task can no longer change state.
func TerminalTaskStatus(status string) bool {
	return status == TaskStatusCompleted || status == TaskStatusCancelled
}
