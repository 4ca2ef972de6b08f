package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	AuthorID  uint64         `gorm:"not null" json:"author_id"`
	TaskID    uint64         `gorm:"not null" json:"task_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Task   Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
