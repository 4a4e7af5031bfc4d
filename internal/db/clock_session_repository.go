package db

import (
	"time"

	"jornada/internal/models"

	"gorm.io/gorm"
)

type ClockSessionRepository struct {
	database *gorm.DB
}

func NewClockSessionRepository(database *gorm.DB) *ClockSessionRepository {
	return &ClockSessionRepository{database: database}
}

func (repo *ClockSessionRepository) Create(session *models.ClockSession) error {
	return repo.database.Create(session).Error
}

func (repo *ClockSessionRepository) Save(session *models.ClockSession) error {
	return repo.database.Save(session).Error
}

func (repo *ClockSessionRepository) FindByID(sessionID uint) (models.ClockSession, error) {
	var session models.ClockSession
	if err := repo.database.First(&session, sessionID).Error; err != nil {
		return models.ClockSession{}, err
	}
	return session, nil
}

// FindOpenForUser returns the user's open session, preferring the latest
// start when data anomalies left more than one open row behind.
func (repo *ClockSessionRepository) FindOpenForUser(userID uint) (models.ClockSession, bool, error) {
	session := models.ClockSession{}
	result := repo.database.
		Where("user_id = ? AND end_time IS NULL", userID).
		Order("start_time DESC, id DESC").
		Limit(1).
		Find(&session)
	if result.Error != nil {
		return models.ClockSession{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.ClockSession{}, false, nil
	}
	return session, true, nil
}

func (repo *ClockSessionRepository) ListByUserDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.ClockSession, error) {
	sessions := make([]models.ClockSession, 0)
	if err := repo.database.
		Where("user_id = ? AND work_date >= ? AND work_date < ?", userID, dayStart, dayEnd).
		Order("start_time ASC, id ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (repo *ClockSessionRepository) ListClosedByUserRange(userID uint, fromStart time.Time, toEnd time.Time) ([]models.ClockSession, error) {
	sessions := make([]models.ClockSession, 0)
	if err := repo.database.
		Where("user_id = ? AND end_time IS NOT NULL AND work_date >= ? AND work_date < ?", userID, fromStart, toEnd).
		Order("work_date ASC, start_time ASC, id ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListOpen returns every open session across all users with owners preloaded.
func (repo *ClockSessionRepository) ListOpen() ([]models.ClockSession, error) {
	sessions := make([]models.ClockSession, 0)
	if err := repo.database.
		Preload("User").
		Where("end_time IS NULL").
		Order("start_time ASC, id ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
