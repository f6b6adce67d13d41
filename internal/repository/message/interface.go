// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/tmsanders/go-preceptor/internal/domain"
)

type MessageRepository interface {
	// Create appends a message and bumps the parent thread's
	// last_message_at in the same transaction.
	Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error)
	// FindByThreadID returns messages ordered by creation time ascending.
	FindByThreadID(ctx context.Context, threadID string) ([]domain.ChatMessage, error)
	CountByThreadID(ctx context.Context, threadID string) (int64, error)
	DeleteByThreadID(ctx context.Context, threadID string) error
}
