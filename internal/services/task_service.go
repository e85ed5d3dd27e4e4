package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/kanban-board-api/internal/authz"
	"github.com/yukikurage/kanban-board-api/internal/constants"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"github.com/yukikurage/kanban-board-api/internal/repository"
	"github.com/yukikurage/kanban-board-api/internal/utils"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskTitleRequired      = errors.New("title is required")
	ErrTaskTitleTooLong       = errors.New("title is too long")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrInvalidTaskPriority    = errors.New("invalid task priority")
	ErrTaskBoardImmutable     = errors.New("board cannot be changed after creation")
	ErrAssigneeNotBoardMember = errors.New("assignee must be the board owner or a member")
	ErrReviewerNotBoardMember = errors.New("reviewer must be the board owner or a member")
	ErrTaskDeleteDenied       = errors.New("only the task creator or the board owner can delete a task")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	boardRepo repository.BoardRepository
	aiService *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, boardRepo repository.BoardRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		boardRepo: boardRepo,
		aiService: aiService,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	BoardID     uint64
	CreatorID   uint64
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	AssigneeID  *uint64
	ReviewerID  *uint64
	DueDate     *utils.Date
}

// CreateTask creates a task on a board the creator owns or belongs to.
// Assignee and reviewer, when given, must be inside the same circle.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}
	if len(title) > constants.MaxTaskTitleLength {
		return nil, ErrTaskTitleTooLong
	}

	board, err := s.boardRepo.FindByID(input.BoardID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	if !authz.CanCreateTask(board, input.CreatorID) {
		return nil, ErrNotBoardMember
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusToDo
	}
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	if input.AssigneeID != nil && !authz.IsEligibleRoleHolder(board, *input.AssigneeID) {
		return nil, ErrAssigneeNotBoardMember
	}
	if input.ReviewerID != nil && !authz.IsEligibleRoleHolder(board, *input.ReviewerID) {
		return nil, ErrReviewerNotBoardMember
	}

	creatorID := input.CreatorID
	task := &models.Task{
		BoardID:     board.ID,
		Title:       title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		CreatorID:   &creatorID,
		AssigneeID:  input.AssigneeID,
		ReviewerID:  input.ReviewerID,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Reviewer")
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID   uint64
	BoardID  *uint64
	Status   *models.TaskStatus
	Priority *models.TaskPriority
}

// ListTasks returns tasks on the boards the user can access, optionally
// narrowed to one board and equality filters.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	boardIDs, err := s.resolveAccessibleBoardIDs(input.UserID, input.BoardID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		BoardIDs: boardIDs,
		Status:   input.Status,
		Priority: input.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// ListAssignedTo returns the tasks where the user is the assignee.
func (s *TaskService) ListAssignedTo(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByAssignee(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	return tasks, nil
}

// ListReviewing returns the tasks where the user is the reviewer.
func (s *TaskService) ListReviewing(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByReviewer(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewing tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with its board, members and role holders loaded.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Board", "Board.Members", "Assignee", "Reviewer")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents a partial task update. The board is not here:
// it cannot be changed once the task exists.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *uint64
	ClearAssignee bool
	ReviewerID    *uint64
	ClearReviewer bool
	DueDate       *utils.Date
	ClearDueDate  bool
}

// UpdateTask applies a partial update, re-validating any new assignee or
// reviewer against the task's board.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Board", "Board.Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTaskTitleRequired
		}
		if len(title) > constants.MaxTaskTitleLength {
			return nil, ErrTaskTitleTooLong
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}

	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if !authz.IsEligibleRoleHolder(&task.Board, *input.AssigneeID) {
			return nil, ErrAssigneeNotBoardMember
		}
		task.AssigneeID = input.AssigneeID
	}

	if input.ClearReviewer {
		task.ReviewerID = nil
	} else if input.ReviewerID != nil {
		if !authz.IsEligibleRoleHolder(&task.Board, *input.ReviewerID) {
			return nil, ErrReviewerNotBoardMember
		}
		task.ReviewerID = input.ReviewerID
	}

	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Reviewer")
}

// DeleteTask deletes a task if the actor created it or owns its board.
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(taskID, "Board")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !authz.CanDeleteTask(task, actorID) {
		return ErrTaskDeleteDenied
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	BoardID uint64
	ActorID uint64
	Text    string
}

// GenerateTasks extracts task suggestions from free text for a board the
// actor can access. Suggestions are returned to the caller, never persisted.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	board, err := s.boardRepo.FindByID(input.BoardID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	if !authz.CanAccessBoard(board, input.ActorID) {
		return nil, ErrNotBoardMember
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := time.Now().AddDate(0, 0, -1)
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Title) == "" {
			continue
		}

		if !aiTask.Priority.Valid() {
			aiTask.Priority = models.TaskPriorityMedium
		}
		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// resolveAccessibleBoardIDs returns the board IDs the user can list tasks on
func (s *TaskService) resolveAccessibleBoardIDs(userID uint64, boardID *uint64) ([]uint64, error) {
	if boardID != nil {
		board, err := s.boardRepo.FindByID(*boardID, "Members")
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBoardNotFound
			}
			return nil, fmt.Errorf("failed to find board: %w", err)
		}
		if !authz.CanAccessBoard(board, userID) {
			return nil, ErrNotBoardMember
		}
		return []uint64{board.ID}, nil
	}

	boards, err := s.boardRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boards: %w", err)
	}

	boardIDs := make([]uint64, 0, len(boards))
	for _, board := range boards {
		boardIDs = append(boardIDs, board.ID)
	}

	return boardIDs, nil
}
