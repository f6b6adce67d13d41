// File: internal/domain/assistant.go
package domain

import "time"

// Assistant is the local mirror of one hosted AI assistant. RemoteID is the
// hosted service's identity for it; instructions live only on the remote side.
type Assistant struct {
	ID          string `gorm:"primarykey"`
	UserID      string `gorm:"not null;index"` // The ID of the teacher who owns the assistant
	Name        string `gorm:"not null"`
	Description string
	RemoteID    string `gorm:"uniqueIndex;not null"`
	LastUsedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
