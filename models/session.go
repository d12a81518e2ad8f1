package models

import "time"

// Session backs an issued token. Signing out revokes the row.
type Session struct {
	ID        string `gorm:"primaryKey;type:VARCHAR(36)"`
	UserID    uint   `gorm:"index;not null"`
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
