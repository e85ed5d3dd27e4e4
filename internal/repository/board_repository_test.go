package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-board-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB opens a GORM connection over sqlmock so tests can assert the
// statement sequence inside repository transactions.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, mock
}

// TestBoardRepositoryCreate tests that the board and its member rows are
// written in one transaction
func TestBoardRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBoardRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "boards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO "board_members"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	board := &models.Board{Title: "Sprint 1", OwnerID: 1}
	err := repo.Create(board, []uint64{2, 3})

	require.NoError(t, err)
	assert.Equal(t, uint64(1), board.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestBoardRepositoryCreate_NoMembers tests that the member insert is skipped
// for an empty member list
func TestBoardRepositoryCreate_NoMembers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBoardRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "boards"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	board := &models.Board{Title: "Solo", OwnerID: 1}
	err := repo.Create(board, nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestBoardRepositoryUpdateWithMembers tests the full member replacement:
// save the board, remove rows outside the new set, upsert the rest
func TestBoardRepositoryUpdateWithMembers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBoardRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "boards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "board_members" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "board_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	board := &models.Board{ID: 7, Title: "Renamed", OwnerID: 1}
	err := repo.UpdateWithMembers(board, []uint64{2})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestBoardRepositoryUpdateWithMembers_EmptySet tests that an empty member
// list removes every row and inserts nothing
func TestBoardRepositoryUpdateWithMembers_EmptySet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBoardRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "boards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "board_members" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	board := &models.Board{ID: 7, Title: "Cleared", OwnerID: 1}
	err := repo.UpdateWithMembers(board, nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestBoardRepositoryDelete tests the cascade order: comments, tasks,
// members, then the board itself, all inside one transaction
func TestBoardRepositoryDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBoardRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "task_comments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE "tasks" SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "board_members" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "boards" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(7)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestBoardRepositoryDelete_RollsBackOnError tests that a failing statement
// aborts the whole cascade
func TestBoardRepositoryDelete_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBoardRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "task_comments" SET`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Delete(7)

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
