package api

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"jornada/internal/db"
	"jornada/internal/services"
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	location     *time.Location
	cookieSecure bool

	repositories  *db.Repositories
	authService   *services.AuthService
	clockService  *services.ClockService
	entryService  *services.EntryService
	taskService   *services.TaskService
	reportService *services.ReportService
	exportService *services.ExportService

	loginLimiter *attemptLimiter
}

const (
	defaultAuthTokenTTL    = 7 * 24 * time.Hour
	rememberAuthTokenTTL   = 30 * 24 * time.Hour
	passwordChangeTokenTTL = 30 * time.Minute

	loginFailureLimit  = 10
	loginFailureWindow = 15 * time.Minute
)

func NewHandler(database *gorm.DB, secret string, location *time.Location, cookieSecure bool) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if secret == "" {
		return nil, errors.New("secret key is required")
	}
	if location == nil {
		location = time.Local
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(secret),
		location:     location,
		cookieSecure: cookieSecure,
		loginLimiter: newAttemptLimiter(loginFailureLimit, loginFailureWindow),
	}
	return handler.withDependencies(database), nil
}
