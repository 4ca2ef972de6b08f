package models

import "time"

// TaskType is a shared category for tasks, such as "bug" or "feature".
type TaskType struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
