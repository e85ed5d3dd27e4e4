package models

import (
	"time"

	"gorm.io/gorm"
)

// BoardMember links a user to a board they can access. Board owners are
// authorized implicitly and do not need a membership row.
type BoardMember struct {
	BoardID   uint64         `gorm:"primarykey" json:"board_id"`
	UserID    uint64         `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Board Board `gorm:"foreignKey:BoardID" json:"board,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
