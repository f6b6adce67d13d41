// File: internal/domain/message.go
package domain

import "time"

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// ChatMessage represents a single message within a thread. Messages are
// append-only; only the user and assistant roles are mirrored locally.
type ChatMessage struct {
	ID        string    `gorm:"primarykey"`
	ThreadID  string    `json:"thread_id" gorm:"not null;index"`
	Role      string    `json:"role" gorm:"not null"` // "user" or "assistant"
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time
}
