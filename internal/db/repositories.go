package db

import "gorm.io/gorm"

type Repositories struct {
	Users         *UserRepository
	Tasks         *TaskRepository
	ClockSessions *ClockSessionRepository
	TimeEntries   *TimeEntryRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		Tasks:         NewTaskRepository(database),
		ClockSessions: NewClockSessionRepository(database),
		TimeEntries:   NewTimeEntryRepository(database),
	}
}
