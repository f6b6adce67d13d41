package assistant

import (
	"context"

	"github.com/tmsanders/go-preceptor/internal/domain"
)

// AssistantRepository handles assistant data operations.
type AssistantRepository interface {
	Create(ctx context.Context, assistant *domain.Assistant) (*domain.Assistant, error)
	FindByID(ctx context.Context, id string) (*domain.Assistant, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Assistant, error)
	Update(ctx context.Context, id, name, description string) error
	TouchLastUsed(ctx context.Context, id string) error
	CountByUserID(ctx context.Context, userID string) (int64, error)
	// Delete removes the assistant row and everything under it: documents,
	// threads and their messages, in one transaction.
	Delete(ctx context.Context, id string) error
}
