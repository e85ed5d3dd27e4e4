package repository

import (
	"github.com/yukikurage/kanban-board-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.TaskComment) error {
	return r.db.Create(comment).Error
}

// FindByTaskAndID finds a comment belonging to the given task with optional preloading
func (r *GormCommentRepository) FindByTaskAndID(taskID, commentID uint64, preload ...string) (*models.TaskComment, error) {
	var comment models.TaskComment
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("task_id = ? AND id = ?", taskID, commentID).
		First(&comment).Error; err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListByTask lists a task's comments oldest first
func (r *GormCommentRepository) ListByTask(taskID uint64) ([]models.TaskComment, error) {
	var comments []models.TaskComment
	if err := r.db.Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").
		Preload("Author").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return comments, nil
}

// CountByTaskIDs counts comments per task
func (r *GormCommentRepository) CountByTaskIDs(taskIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(taskIDs))
	if len(taskIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TaskID uint64
		Count  int64
	}

	if err := r.db.Model(&models.TaskComment{}).
		Select("task_id, COUNT(*) AS count").
		Where("task_id IN ?", taskIDs).
		Group("task_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TaskID] = row.Count
	}

	return counts, nil
}

// Delete soft deletes a comment
func (r *GormCommentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.TaskComment{}, id).Error
}
