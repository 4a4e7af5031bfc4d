package services

import (
	"time"

	"jornada/internal/models"
)

type ClockSessionRepository interface {
	Create(session *models.ClockSession) error
	Save(session *models.ClockSession) error
	FindOpenForUser(userID uint) (models.ClockSession, bool, error)
	ListByUserDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.ClockSession, error)
}

type ClockUserRepository interface {
	FindByID(userID uint) (models.User, error)
}

type ClockService struct {
	sessions ClockSessionRepository
	users    ClockUserRepository
}

func NewClockService(sessions ClockSessionRepository, users ClockUserRepository) *ClockService {
	return &ClockService{sessions: sessions, users: users}
}

// ClockIn opens a new attendance session for the user. Any number of closed
// sessions per day is fine, but never more than one open at a time; the
// partial unique index backs this check under concurrent requests.
func (service *ClockService) ClockIn(userID uint, now time.Time, location *time.Location) (models.ClockSession, error) {
	open, found, err := service.sessions.FindOpenForUser(userID)
	if err != nil {
		return models.ClockSession{}, err
	}
	if found {
		return models.ClockSession{}, &DomainError{
			Kind:     ErrConflict,
			Message:  "an open clock session already exists",
			RecordID: open.ID,
		}
	}

	session := models.ClockSession{
		UserID:    userID,
		StartTime: now,
		WorkDate:  DateAtLocation(now, location),
	}
	if err := service.sessions.Create(&session); err != nil {
		if isUniqueViolation(err) {
			return models.ClockSession{}, &DomainError{
				Kind:    ErrConflict,
				Message: "an open clock session already exists",
			}
		}
		return models.ClockSession{}, err
	}
	return session, nil
}

// ClockOut closes the user's open session, storing the break and the final
// duration. Closing twice fails, the operation is not idempotent.
func (service *ClockService) ClockOut(userID uint, breakMinutes int, now time.Time) (models.ClockSession, error) {
	if !ValidBreakMinutes(breakMinutes) {
		return models.ClockSession{}, &DomainError{
			Kind:    ErrValidation,
			Message: "break minutes must be between 0 and 480",
			Fields:  []string{"break_minutes"},
		}
	}

	session, found, err := service.sessions.FindOpenForUser(userID)
	if err != nil {
		return models.ClockSession{}, err
	}
	if !found {
		return models.ClockSession{}, &DomainError{
			Kind:    ErrInvalidState,
			Message: "no open clock session to close",
		}
	}

	endTime := now
	session.EndTime = &endTime
	session.BreakMinutes = breakMinutes
	session.Hours = SessionHours(session.StartTime, endTime, breakMinutes)
	if err := service.sessions.Save(&session); err != nil {
		return models.ClockSession{}, err
	}
	return session, nil
}

func (service *ClockService) OpenSession(userID uint) (models.ClockSession, bool, error) {
	return service.sessions.FindOpenForUser(userID)
}

func (service *ClockService) SessionsForDay(userID uint, day time.Time, location *time.Location) ([]models.ClockSession, error) {
	dayStart, dayEnd := DayRange(day, location)
	return service.sessions.ListByUserDayRange(userID, dayStart, dayEnd)
}

// TotalHoursForDay sums the stored duration of closed sessions plus a live
// valuation of the one possibly-open session, rounded to one decimal. The
// live part is computed at read time and never persisted.
func (service *ClockService) TotalHoursForDay(userID uint, day time.Time, now time.Time, location *time.Location) (float64, error) {
	sessions, err := service.SessionsForDay(userID, day, location)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, session := range sessions {
		if session.Open() {
			total += LiveSessionHours(session, now)
			continue
		}
		total += session.Hours
	}
	return RoundHours1(total), nil
}

type ManualSessionInput struct {
	UserID       uint
	StartTime    time.Time
	EndTime      time.Time
	BreakMinutes int
}

// AddManualSession lets the manager backfill a closed attendance period for
// a user, flagged as manually entered.
func (service *ClockService) AddManualSession(actor Actor, input ManualSessionInput, location *time.Location) (models.ClockSession, error) {
	if !actor.IsManager() {
		return models.ClockSession{}, &DomainError{
			Kind:    ErrForbidden,
			Message: "only the manager may add manual sessions",
		}
	}
	if !input.EndTime.After(input.StartTime) {
		return models.ClockSession{}, &DomainError{
			Kind:    ErrValidation,
			Message: "end must come after start",
			Fields:  []string{"start_time", "end_time"},
		}
	}
	if !ValidBreakMinutes(input.BreakMinutes) {
		return models.ClockSession{}, &DomainError{
			Kind:    ErrValidation,
			Message: "break minutes must be between 0 and 480",
			Fields:  []string{"break_minutes"},
		}
	}

	if _, err := service.users.FindByID(input.UserID); err != nil {
		if isRecordNotFound(err) {
			return models.ClockSession{}, &DomainError{Kind: ErrNotFound, Message: "user not found"}
		}
		return models.ClockSession{}, err
	}

	endTime := input.EndTime
	session := models.ClockSession{
		UserID:       input.UserID,
		StartTime:    input.StartTime,
		EndTime:      &endTime,
		WorkDate:     DateAtLocation(input.StartTime, location),
		Hours:        SessionHours(input.StartTime, input.EndTime, input.BreakMinutes),
		BreakMinutes: input.BreakMinutes,
		Manual:       true,
	}
	if err := service.sessions.Create(&session); err != nil {
		return models.ClockSession{}, err
	}
	return session, nil
}
