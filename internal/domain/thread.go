// File: internal/domain/thread.go
package domain

import "time"

// ChatThread represents a single conversation with an assistant. The remote
// thread is created first; LastMessageAt is bumped on every message append.
type ChatThread struct {
	ID             string `gorm:"primarykey"`
	AssistantID    string `gorm:"not null;index"`
	UserID         string `gorm:"not null;index"` // The ID of the user who owns the thread
	RemoteThreadID string `gorm:"uniqueIndex;not null"`
	Name           *string
	LastMessageAt  time.Time
	CreatedAt      time.Time
}
