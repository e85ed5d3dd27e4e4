package repository

import (
	"github.com/yukikurage/kanban-board-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// taskOrder sorts due dates ascending with undated tasks last, then priority,
// then id as a stable tiebreaker.
const taskOrder = "CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC, tasks.priority ASC, tasks.id ASC"

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks on the given boards with optional equality filters
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	if len(filter.BoardIDs) == 0 {
		return []models.Task{}, nil
	}

	query := r.db.Model(&models.Task{}).Where("tasks.board_id IN ?", filter.BoardIDs)

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}

	var tasks []models.Task
	if err := query.Order(taskOrder).
		Preload("Assignee").
		Preload("Reviewer").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListByAssignee lists tasks where the user is the assignee, across all boards
func (r *GormTaskRepository) ListByAssignee(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("assignee_id = ?", userID).
		Order(taskOrder).
		Preload("Assignee").
		Preload("Reviewer").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListByReviewer lists tasks where the user is the reviewer, across all boards
func (r *GormTaskRepository) ListByReviewer(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Where("reviewer_id = ?", userID).
		Order(taskOrder).
		Preload("Assignee").
		Preload("Reviewer").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update saves task fields without touching associations
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// Delete soft deletes a task and its comments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}
