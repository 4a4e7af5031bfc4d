package api

import (
	"gorm.io/gorm"

	"jornada/internal/db"
	"jornada/internal/services"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.clockService = services.NewClockService(handler.repositories.ClockSessions, handler.repositories.Users)
	handler.entryService = services.NewEntryService(handler.repositories.TimeEntries, handler.repositories.Tasks)
	handler.taskService = services.NewTaskService(handler.repositories.Tasks, handler.repositories.TimeEntries, handler.repositories.Users)
	handler.reportService = services.NewReportService(handler.repositories.TimeEntries, handler.repositories.ClockSessions, handler.repositories.Tasks, handler.repositories.Users)
	handler.exportService = services.NewExportService(handler.repositories.TimeEntries, handler.repositories.Tasks)
	return handler
}

func (handler *Handler) ensureDependencies() {
	if handler.repositories == nil {
		if handler.db == nil {
			return
		}
		handler.withDependencies(handler.db)
	}
}
