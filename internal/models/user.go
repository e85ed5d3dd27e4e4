package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Fullname     string         `gorm:"type:varchar(150);not null" json:"fullname"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool           `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	OwnedBoards  []Board       `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships  []BoardMember `gorm:"foreignKey:UserID" json:"-"`
	CreatedTasks []Task        `gorm:"foreignKey:CreatorID" json:"-"`
}
