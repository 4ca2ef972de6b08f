package models

import (
	"time"
)

type User struct {
	ID            uint64     `gorm:"primarykey" json:"id"`
	Username      string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email         string     `gorm:"type:varchar(255)" json:"email"`
	FirstName     string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName      string     `gorm:"type:varchar(100)" json:"last_name"`
	Position      string     `gorm:"type:varchar(100)" json:"position"`
	PasswordHash  string     `gorm:"type:varchar(255);not null" json:"-"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Memberships   []TeamMember `gorm:"foreignKey:UserID" json:"-"`
	AssignedTasks []Task       `gorm:"foreignKey:AssigneeID" json:"-"`
	Sessions      []Session    `gorm:"foreignKey:UserID" json:"-"`
}
