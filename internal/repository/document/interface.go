package document

import (
	"context"

	"github.com/tmsanders/go-preceptor/internal/domain"
)

// DocumentRepository handles document metadata operations. The bytes
// themselves live in blob storage; only rows are managed here.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	FindByID(ctx context.Context, id string) (*domain.Document, error)
	FindByAssistantID(ctx context.Context, assistantID string) ([]domain.Document, error)
	SetStatus(ctx context.Context, id, status, remoteFileID string) error
	CountByAssistantID(ctx context.Context, assistantID string) (int64, error)
	Delete(ctx context.Context, id string) error
}
