package db

import (
	"time"

	"jornada/internal/models"

	"gorm.io/gorm"
)

type TimeEntryRepository struct {
	database *gorm.DB
}

func NewTimeEntryRepository(database *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{database: database}
}

func (repo *TimeEntryRepository) Create(entry *models.TimeEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *TimeEntryRepository) FindByID(entryID uint) (models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := repo.database.First(&entry, entryID).Error; err != nil {
		return models.TimeEntry{}, err
	}
	return entry, nil
}

func (repo *TimeEntryRepository) FindOpenForUser(userID uint) (models.TimeEntry, bool, error) {
	entry := models.TimeEntry{}
	result := repo.database.
		Where("user_id = ? AND end_time IS NULL", userID).
		Order("start_time DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.TimeEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.TimeEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *TimeEntryRepository) ListByUserDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.TimeEntry, error) {
	entries := make([]models.TimeEntry, 0)
	if err := repo.database.
		Where("user_id = ? AND work_date >= ? AND work_date < ?", userID, dayStart, dayEnd).
		Order("start_time ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *TimeEntryRepository) ListByUserRange(userID uint, fromStart time.Time, toEnd time.Time) ([]models.TimeEntry, error) {
	entries := make([]models.TimeEntry, 0)
	if err := repo.database.
		Where("user_id = ? AND work_date >= ? AND work_date < ?", userID, fromStart, toEnd).
		Order("work_date ASC, start_time ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUserOptionalRange lists a user's entries bounded by either side of the
// range only when the bound is present. Nil bounds mean the full history.
func (repo *TimeEntryRepository) ListByUserOptionalRange(userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.TimeEntry, error) {
	query := repo.database.Model(&models.TimeEntry{}).Where("user_id = ?", userID)
	if fromStart != nil {
		query = query.Where("work_date >= ?", *fromStart)
	}
	if toEnd != nil {
		query = query.Where("work_date < ?", *toEnd)
	}

	entries := make([]models.TimeEntry, 0)
	if err := query.Order("work_date ASC, start_time ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *TimeEntryRepository) ListByTasks(taskIDs []uint) ([]models.TimeEntry, error) {
	entries := make([]models.TimeEntry, 0)
	if len(taskIDs) == 0 {
		return entries, nil
	}
	if err := repo.database.
		Where("task_id IN ?", taskIDs).
		Order("start_time ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListOpen returns every open entry across all users with owners preloaded.
func (repo *TimeEntryRepository) ListOpen() ([]models.TimeEntry, error) {
	entries := make([]models.TimeEntry, 0)
	if err := repo.database.
		Preload("User").
		Where("end_time IS NULL").
		Order("start_time ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *TimeEntryRepository) CountOpenForTask(taskID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.TimeEntry{}).
		Where("task_id = ? AND end_time IS NULL", taskID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CloseWithTaskRecalc persists the closed entry and, when it links to a task,
// recomputes that task's actual hours from every entry on the task inside
// the same transaction, so readers never observe stale task hours.
func (repo *TimeEntryRepository) CloseWithTaskRecalc(entry *models.TimeEntry) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entry).Error; err != nil {
			return err
		}
		if entry.TaskID == nil {
			return nil
		}

		var totalMinutes int64
		if err := tx.Model(&models.TimeEntry{}).
			Where("task_id = ?", *entry.TaskID).
			Select("COALESCE(SUM(duration_minutes), 0)").
			Scan(&totalMinutes).Error; err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", *entry.TaskID).
			Update("actual_hours", float64(totalMinutes)/60.0).Error
	})
}
