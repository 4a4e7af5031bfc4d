package db

import (
	"jornada/internal/models"

	"gorm.io/gorm"
)

type TaskRepository struct {
	database *gorm.DB
}

func NewTaskRepository(database *gorm.DB) *TaskRepository {
	return &TaskRepository{database: database}
}

func (repo *TaskRepository) Create(task *models.Task) error {
	return repo.database.Create(task).Error
}

func (repo *TaskRepository) FindByID(taskID uint) (models.Task, error) {
	var task models.Task
	if err := repo.database.
		Preload("CreatedBy").
		Preload("AssignedTo").
		First(&task, taskID).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (repo *TaskRepository) Save(task *models.Task) error {
	return repo.database.Save(task).Error
}

func (repo *TaskRepository) Delete(taskID uint) error {
	return repo.database.Delete(&models.Task{}, taskID).Error
}

// List narrows tasks by the given filters; zero values mean "no filter".
// visibleToUserID applies the worker visibility rule: only unassigned tasks
// or tasks assigned to that user are returned.
func (repo *TaskRepository) List(status string, priority string, assignedToID *uint, visibleToUserID *uint) ([]models.Task, error) {
	query := repo.database.Model(&models.Task{}).
		Preload("CreatedBy").
		Preload("AssignedTo")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if assignedToID != nil {
		query = query.Where("assigned_to_id = ?", *assignedToID)
	}
	if visibleToUserID != nil {
		query = query.Where("(assigned_to_id IS NULL OR assigned_to_id = ?)", *visibleToUserID)
	}

	tasks := make([]models.Task, 0)
	if err := query.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (repo *TaskRepository) ListByIDs(taskIDs []uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if len(taskIDs) == 0 {
		return tasks, nil
	}
	if err := repo.database.Where("id IN ?", taskIDs).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (repo *TaskRepository) ListAssignedTo(userID uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	if err := repo.database.
		Where("assigned_to_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ClaimUnassigned atomically assigns the task to userID and moves it to
// in_progress, but only while it is still unassigned and not terminal.
// Zero rows affected means the claim lost.
func (repo *TaskRepository) ClaimUnassigned(taskID uint, userID uint) (int64, error) {
	result := repo.database.Model(&models.Task{}).
		Where("id = ? AND assigned_to_id IS NULL AND status NOT IN ?",
			taskID, []string{models.TaskStatusCompleted, models.TaskStatusCancelled}).
		Updates(map[string]any{
			"assigned_to_id": userID,
			"status":         models.TaskStatusInProgress,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
