// File: internal/dtos/document.go
package dtos

import (
	"time"

	"github.com/tmsanders/go-preceptor/internal/domain"
)

// DocumentResponse is the API view of one uploaded curriculum file.
// Storage paths and hosted file ids stay internal.
type DocumentResponse struct {
	ID          string `json:"id"`
	AssistantID string `json:"assistant_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	PublicURL   string `json:"public_url,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// FromDocument maps a document row to the API view.
func FromDocument(d domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		AssistantID: d.AssistantID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		PublicURL:   d.PublicURL,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
}

// FromDocumentSlice maps a slice of document rows.
func FromDocumentSlice(documents []domain.Document) []DocumentResponse {
	out := make([]DocumentResponse, len(documents))
	for i, d := range documents {
		out[i] = FromDocument(d)
	}
	return out
}
