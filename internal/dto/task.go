package dto

import (
	"time"

	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64              `json:"id"`
	Board         uint64              `json:"board"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Status        models.TaskStatus   `json:"status"`
	Priority      models.TaskPriority `json:"priority"`
	Assignee      *UserDTO            `json:"assignee"`
	Reviewer      *UserDTO            `json:"reviewer"`
	DueDate       *utils.Date         `json:"due_date"`
	CommentsCount int64               `json:"comments_count"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CommentDTO represents a task comment in API responses. Author is the
// writer's fullname.
type CommentDTO struct {
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task, commentsCount int64) TaskDTO {
	dto := TaskDTO{
		ID:            task.ID,
		Board:         task.BoardID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		Priority:      task.Priority,
		DueDate:       task.DueDate,
		CommentsCount: commentsCount,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}

	// Include role holders if preloaded
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	if task.Reviewer != nil && task.Reviewer.ID != 0 {
		reviewer := ToUserDTO(*task.Reviewer)
		dto.Reviewer = &reviewer
	}

	return dto
}

// ToTaskDTOs converts tasks with their comment counts, keyed by task id
func ToTaskDTOs(tasks []models.Task, commentCounts map[uint64]int64) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, commentCounts[task.ID])
	}
	return items
}

// ToCommentDTO converts a TaskComment model to CommentDTO
func ToCommentDTO(comment models.TaskComment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		CreatedAt: comment.CreatedAt,
		Author:    comment.Author.Fullname,
		Content:   comment.Content,
	}
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.TaskComment) []CommentDTO {
	items := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		items[i] = ToCommentDTO(comment)
	}
	return items
}
