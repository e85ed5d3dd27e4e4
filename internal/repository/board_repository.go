package repository

import (
	"github.com/yukikurage/kanban-board-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a board and its member rows in one transaction
func (r *GormBoardRepository) Create(board *models.Board, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}

		if len(memberIDs) == 0 {
			return nil
		}

		members := make([]models.BoardMember, len(memberIDs))
		for i, userID := range memberIDs {
			members[i] = models.BoardMember{BoardID: board.ID, UserID: userID}
		}

		return tx.Create(&members).Error
	})
}

// FindByID finds a board by ID with optional preloading
func (r *GormBoardRepository) FindByID(id uint64, preload ...string) (*models.Board, error) {
	var board models.Board
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&board, id).Error; err != nil {
		return nil, err
	}

	return &board, nil
}

// ListForUser lists boards the user owns or belongs to, ordered by title then id
func (r *GormBoardRepository) ListForUser(userID uint64) ([]models.Board, error) {
	memberSubQuery := r.db.Model(&models.BoardMember{}).
		Select("1").
		Where("board_members.board_id = boards.id").
		Where("board_members.user_id = ?", userID).
		Where("board_members.deleted_at IS NULL")

	var boards []models.Board
	if err := r.db.Model(&models.Board{}).
		Where("boards.owner_id = ? OR EXISTS (?)", userID, memberSubQuery).
		Order("boards.title ASC, boards.id ASC").
		Preload("Members").
		Find(&boards).Error; err != nil {
		return nil, err
	}

	return boards, nil
}

// Update saves board fields without touching associations
func (r *GormBoardRepository) Update(board *models.Board) error {
	return r.db.Omit(clause.Associations).Save(board).Error
}

// UpdateWithMembers saves board fields and replaces the whole member set in
// one transaction. Missing rows are removed, supplied ones upserted with
// deleted_at cleared so returning members keep their original row.
func (r *GormBoardRepository) UpdateWithMembers(board *models.Board, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(board).Error; err != nil {
			return err
		}

		removeQuery := tx.Where("board_id = ?", board.ID)
		if len(memberIDs) > 0 {
			removeQuery = removeQuery.Where("user_id NOT IN ?", memberIDs)
		}
		if err := removeQuery.Delete(&models.BoardMember{}).Error; err != nil {
			return err
		}

		if len(memberIDs) == 0 {
			return nil
		}

		members := make([]models.BoardMember, len(memberIDs))
		for i, userID := range memberIDs {
			members[i] = models.BoardMember{BoardID: board.ID, UserID: userID}
		}

		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "board_id"}, {Name: "user_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
			}).
			Create(&members).Error
	})
}

// Delete deletes a board and all related data in a transaction
func (r *GormBoardRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Comments go first, while their tasks are still visible to the subquery
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("board_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.BoardMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Board{}, id).Error
	})
}

// TaskStatsByBoardIDs aggregates task counters per board for list serialization
func (r *GormBoardRepository) TaskStatsByBoardIDs(boardIDs []uint64) (map[uint64]TaskStats, error) {
	stats := make(map[uint64]TaskStats, len(boardIDs))
	if len(boardIDs) == 0 {
		return stats, nil
	}

	var rows []struct {
		BoardID      uint64
		Total        int64
		ToDo         int64
		HighPriority int64
	}

	err := r.db.Model(&models.Task{}).
		Select(
			"board_id, COUNT(*) AS total, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS to_do, "+
				"SUM(CASE WHEN priority = ? THEN 1 ELSE 0 END) AS high_priority",
			models.TaskStatusToDo, models.TaskPriorityHigh,
		).
		Where("board_id IN ?", boardIDs).
		Group("board_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats[row.BoardID] = TaskStats{
			Total:        row.Total,
			ToDo:         row.ToDo,
			HighPriority: row.HighPriority,
		}
	}

	return stats, nil
}
