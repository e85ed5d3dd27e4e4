// Package authz holds the authorization rules as pure predicates over
// loaded models. Predicates never touch the database; callers are
// responsible for loading the resource with the relations each predicate
// reads (board members, task board). Authentication happens earlier in
// the middleware chain, so every actor here is a real user id.
package authz

import (
	"github.com/yukikurage/kanban-board-api/internal/models"
)

// IsBoardOwner reports whether userID owns the board.
func IsBoardOwner(board *models.Board, userID uint64) bool {
	return board.OwnerID == userID
}

// IsBoardMember reports whether userID has a membership row on the board.
// Ownership alone does not make a membership row; see CanAccessBoard.
func IsBoardMember(board *models.Board, userID uint64) bool {
	for _, m := range board.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanAccessBoard reports whether userID may read or update the board.
// Owners keep full access even when absent from the member list.
func CanAccessBoard(board *models.Board, userID uint64) bool {
	return IsBoardOwner(board, userID) || IsBoardMember(board, userID)
}

// CanDeleteBoard reports whether userID may delete the board. Only the
// owner may, members cannot.
func CanDeleteBoard(board *models.Board, userID uint64) bool {
	return IsBoardOwner(board, userID)
}

// CanCreateTask reports whether userID may create a task on the board.
func CanCreateTask(board *models.Board, userID uint64) bool {
	return CanAccessBoard(board, userID)
}

// CanAccessTask reports whether userID may read or update the task.
// task.Board must be loaded with its members.
func CanAccessTask(task *models.Task, userID uint64) bool {
	return CanAccessBoard(&task.Board, userID)
}

// CanDeleteTask reports whether userID may delete the task: the task's
// creator or the board owner. A plain board member cannot delete tasks
// created by others.
func CanDeleteTask(task *models.Task, userID uint64) bool {
	if task.CreatorID != nil && *task.CreatorID == userID {
		return true
	}
	return IsBoardOwner(&task.Board, userID)
}

// IsEligibleRoleHolder reports whether userID may be set as the board's
// task assignee or reviewer.
func IsEligibleRoleHolder(board *models.Board, userID uint64) bool {
	return CanAccessBoard(board, userID)
}

// CanAccessComments reports whether userID may list or add comments on
// the task. Same circle as task access.
func CanAccessComments(task *models.Task, userID uint64) bool {
	return CanAccessTask(task, userID)
}

// CanDeleteComment reports whether userID may delete the comment. Only
// the author may, regardless of board ownership.
func CanDeleteComment(comment *models.TaskComment, userID uint64) bool {
	return comment.AuthorID == userID
}
