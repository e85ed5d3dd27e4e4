package repository

import (
	"github.com/yukikurage/kanban-board-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByIDs returns the users whose IDs appear in ids
	FindByIDs(ids []uint64) ([]models.User, error)
}

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// Create creates a board and its member rows in one transaction
	Create(board *models.Board, memberIDs []uint64) error

	// FindByID finds a board by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Board, error)

	// ListForUser lists boards the user owns or belongs to, ordered by title then id
	ListForUser(userID uint64) ([]models.Board, error)

	// Update saves board fields without touching associations
	Update(board *models.Board) error

	// UpdateWithMembers saves board fields and replaces the whole member set atomically
	UpdateWithMembers(board *models.Board, memberIDs []uint64) error

	// Delete deletes a board, its tasks, their comments and its member rows
	Delete(id uint64) error

	// TaskStatsByBoardIDs aggregates task counters per board for list serialization
	TaskStatsByBoardIDs(boardIDs []uint64) (map[uint64]TaskStats, error)
}

// TaskStats holds per-board task counters.
type TaskStats struct {
	Total        int64
	ToDo         int64
	HighPriority int64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks on the given boards with optional equality filters
	List(filter TaskFilter) ([]models.Task, error)

	// ListByAssignee lists tasks where the user is the assignee, across all boards
	ListByAssignee(userID uint64) ([]models.Task, error)

	// ListByReviewer lists tasks where the user is the reviewer, across all boards
	ListByReviewer(userID uint64) ([]models.Task, error)

	// Update saves task fields without touching associations
	Update(task *models.Task) error

	// Delete deletes a task and its comments
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks. BoardIDs is the
// visibility scope; an empty scope yields no rows.
type TaskFilter struct {
	BoardIDs []uint64
	Status   *models.TaskStatus
	Priority *models.TaskPriority
}

// CommentRepository defines the interface for task comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.TaskComment) error

	// FindByTaskAndID finds a comment belonging to the given task with optional preloading
	FindByTaskAndID(taskID, commentID uint64, preload ...string) (*models.TaskComment, error)

	// ListByTask lists a task's comments oldest first
	ListByTask(taskID uint64) ([]models.TaskComment, error)

	// CountByTaskIDs counts comments per task
	CountByTaskIDs(taskIDs []uint64) (map[uint64]int64, error)

	// Delete soft deletes a comment
	Delete(id uint64) error
}
