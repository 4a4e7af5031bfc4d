package models

import "time"

const (
	EntryCategoryDevelopment = "development"
	EntryCategoryMeeting     = "meeting"
	EntryCategorySupport     = "support"
	EntryCategoryPlanning    = "planning"
	EntryCategoryOther       = "other"
)

const (
	EntryDescriptionMinLength = 3
	EntryDescriptionMaxLength = 500
)

// TimeEntry is one timed interval of focused work. Entries linked to a task
// feed that task's accumulated actual hours; unlinked entries are free time.
// At most one entry per user is open at any instant, independent of clock
// sessions (partial unique index in the store).
type TimeEntry struct {
	ID              uint       `gorm:"primaryKey"`
	UserID          uint       `gorm:"not null;index"`
	TaskID          *uint      `gorm:"index"`
	StartTime       time.Time  `gorm:"not null"`
	EndTime         *time.Time
	DurationMinutes int       `gorm:"not null;default:0"`
	Description     string    `gorm:"not null"`
	WorkDate        time.Time `gorm:"type:date;not null;index"`
	Billable        bool      `gorm:"not null;default:false"`
	Category        string    `gorm:"not null;default:other"`
	IsFreeTime      bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time

	User User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Task *Task `gorm:"foreignKey:TaskID;constraint:OnDelete:SET NULL"`
}

func (entry TimeEntry) Open() bool {
	return entry.EndTime == nil
}

func ValidEntryCategory(category string) bool {
	switch category {
	case EntryCategoryDevelopment, EntryCategoryMeeting, EntryCategorySupport,
		EntryCategoryPlanning, EntryCategoryOther:
		return true
	default:
		return false
	}
}
