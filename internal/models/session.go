package models

import "time"

// Session is a server-side login. Only the SHA-256 hash of the token is stored.
type Session struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;index" json:"user_id"`
	TokenHash  string     `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	UserAgent  string     `gorm:"type:varchar(255)" json:"user_agent"`
	ClientIP   string     `gorm:"type:varchar(64)" json:"client_ip"`
	CreatedAt  time.Time  `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsValid reports whether the session can still authenticate requests at now.
func (s Session) IsValid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
