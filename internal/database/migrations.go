package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds indexes beyond what the model tags declare. The existence
// check queries pg_indexes, so this only runs on postgres.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Membership lookups run board->users and user->boards
		{"board_members", "idx_board_members_user_id", "user_id"},

		// Task listings filter by board and people, order by due date
		{"tasks", "idx_tasks_assignee_id", "assignee_id"},
		{"tasks", "idx_tasks_reviewer_id", "reviewer_id"},
		{"tasks", "idx_tasks_due_date", "due_date"},

		// Comments list per task in creation order
		{"task_comments", "idx_task_comments_task_created", "task_id, created_at"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
