// File: internal/domain/document.go
package domain

import "time"

const (
	DocumentStatusProcessing = "processing"
	DocumentStatusReady      = "ready"
	DocumentStatusError      = "error"
)

// Document is one uploaded curriculum file attached to an assistant. The
// bytes live in blob storage at StoragePath; ContentType is the detected
// type, not whatever the client claimed.
type Document struct {
	ID           string `gorm:"primarykey"`
	UserID       string `gorm:"not null;index"`
	AssistantID  string `gorm:"not null;index"`
	Filename     string `gorm:"not null"`
	ContentType  string `gorm:"not null"`
	SizeBytes    int64  `gorm:"not null"`
	StoragePath  string `gorm:"not null"`
	PublicURL    string
	RemoteFileID string // hosted file-search file id, empty until attached
	Status       string `gorm:"not null;default:processing"`
	CreatedAt    time.Time
}
