// File: internal/repository/thread/interface.go
package thread

import (
	"context"
	"time"

	"github.com/tmsanders/go-preceptor/internal/domain"
)

// ThreadRepository handles chat thread data operations.
type ThreadRepository interface {
	Create(ctx context.Context, thread *domain.ChatThread) (*domain.ChatThread, error)
	FindByID(ctx context.Context, id string) (*domain.ChatThread, error)
	FindByUserID(ctx context.Context, userID string) ([]ThreadListItem, error)
	CountByAssistantID(ctx context.Context, assistantID string) (int64, error)
	// Delete removes the thread's messages first, then the thread row,
	// in one transaction.
	Delete(ctx context.Context, id string) error
}

// ThreadListItem is a thread row joined with its assistant's name for
// list displays.
type ThreadListItem struct {
	ID            string
	AssistantID   string
	AssistantName string
	Name          *string
	LastMessageAt time.Time
	CreatedAt     time.Time
}
