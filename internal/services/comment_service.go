package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/kanban-board-api/internal/authz"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
)

var (
	ErrCommentNotFound        = errors.New("comment not found")
	ErrCommentContentRequired = errors.New("content is required")
	ErrNotCommentAuthor       = errors.New("only the comment author can delete it")
)

// CommentService provides business logic for task comments.
type CommentService struct {
	commentRepo repository.CommentRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
	}
}

// ListComments returns a task's comments oldest first.
func (s *CommentService) ListComments(taskID uint64) ([]models.TaskComment, error) {
	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CreateCommentInput represents input for creating a comment.
type CreateCommentInput struct {
	TaskID   uint64
	AuthorID uint64
	Content  string
}

// CreateComment adds a comment to a task.
func (s *CommentService) CreateComment(input CreateCommentInput) (*models.TaskComment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrCommentContentRequired
	}

	comment := &models.TaskComment{
		TaskID:   input.TaskID,
		AuthorID: input.AuthorID,
		Content:  content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.commentRepo.FindByTaskAndID(comment.TaskID, comment.ID, "Author")
}

// DeleteComment deletes a comment if the actor wrote it. The comment must
// belong to the named task.
func (s *CommentService) DeleteComment(taskID, commentID, actorID uint64) error {
	comment, err := s.commentRepo.FindByTaskAndID(taskID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	if !authz.CanDeleteComment(comment, actorID) {
		return ErrNotCommentAuthor
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

// CountForTasks returns per-task comment counts for list serialization.
func (s *CommentService) CountForTasks(taskIDs []uint64) (map[uint64]int64, error) {
	counts, err := s.commentRepo.CountByTaskIDs(taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	return counts, nil
}
