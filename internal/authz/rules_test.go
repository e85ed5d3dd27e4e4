package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/kanban-board-api/internal/models"
)

func boardWith(ownerID uint64, memberIDs ...uint64) *models.Board {
	board := &models.Board{ID: 1, Title: "Sprint", OwnerID: ownerID}
	for _, id := range memberIDs {
		board.Members = append(board.Members, models.BoardMember{BoardID: board.ID, UserID: id})
	}
	return board
}

func taskOn(board *models.Board, creatorID *uint64) *models.Task {
	return &models.Task{ID: 10, BoardID: board.ID, Board: *board, CreatorID: creatorID}
}

func TestBoardAccess(t *testing.T) {
	const (
		owner    = uint64(1)
		member   = uint64(2)
		stranger = uint64(3)
	)

	tests := []struct {
		name   string
		board  *models.Board
		userID uint64
		access bool
		delete bool
	}{
		{"owner with membership row", boardWith(owner, owner, member), owner, true, true},
		{"owner without membership row", boardWith(owner, member), owner, true, true},
		{"member", boardWith(owner, member), member, true, false},
		{"stranger", boardWith(owner, member), stranger, false, false},
		{"no members at all", boardWith(owner), member, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.access, CanAccessBoard(tt.board, tt.userID))
			assert.Equal(t, tt.access, CanCreateTask(tt.board, tt.userID))
			assert.Equal(t, tt.access, IsEligibleRoleHolder(tt.board, tt.userID))
			assert.Equal(t, tt.delete, CanDeleteBoard(tt.board, tt.userID))
		})
	}
}

func TestTaskAccess(t *testing.T) {
	const (
		owner    = uint64(1)
		member   = uint64(2)
		stranger = uint64(3)
	)
	board := boardWith(owner, member)

	creator := member
	task := taskOn(board, &creator)

	assert.True(t, CanAccessTask(task, owner))
	assert.True(t, CanAccessTask(task, member))
	assert.False(t, CanAccessTask(task, stranger))

	assert.True(t, CanAccessComments(task, member))
	assert.False(t, CanAccessComments(task, stranger))
}

func TestCanDeleteTask(t *testing.T) {
	const (
		owner   = uint64(1)
		creator = uint64(2)
		member  = uint64(3)
	)
	board := boardWith(owner, creator, member)

	creatorID := creator
	task := taskOn(board, &creatorID)

	assert.True(t, CanDeleteTask(task, creator), "creator deletes own task")
	assert.True(t, CanDeleteTask(task, owner), "board owner deletes any task")
	assert.False(t, CanDeleteTask(task, member), "plain member cannot delete")

	orphan := taskOn(board, nil)
	assert.True(t, CanDeleteTask(orphan, owner))
	assert.False(t, CanDeleteTask(orphan, member), "nil creator matches nobody")
}

func TestCanDeleteComment(t *testing.T) {
	const (
		owner  = uint64(1)
		author = uint64(2)
	)
	comment := &models.TaskComment{ID: 5, TaskID: 10, AuthorID: author}

	assert.True(t, CanDeleteComment(comment, author))
	assert.False(t, CanDeleteComment(comment, owner), "board owner cannot delete others' comments")
}
