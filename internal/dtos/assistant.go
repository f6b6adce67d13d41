// File: internal/dtos/assistant.go
package dtos

import (
	"time"

	"github.com/tmsanders/go-preceptor/internal/domain"
	assistantsvc "github.com/tmsanders/go-preceptor/internal/services/assistant"
)

// CreateAssistantRequest is the payload to create an assistant.
type CreateAssistantRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=500"`
	Instructions string `json:"instructions"`
}

// UpdateAssistantRequest is a partial edit; omitted fields stay as they
// are.
type UpdateAssistantRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Instructions *string `json:"instructions,omitempty"`
}

// AssistantResponse is the list/summary view. Instructions are absent
// on purpose: they live remotely and are only fetched for the detail
// view.
type AssistantResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LastUsedAt  string `json:"last_used_at"`
	CreatedAt   string `json:"created_at"`
}

// AssistantDetailResponse adds the remotely held instructions.
type AssistantDetailResponse struct {
	AssistantResponse
	Instructions string `json:"instructions"`
}

// FromAssistant maps a mirror row to the API summary view.
func FromAssistant(a domain.Assistant) AssistantResponse {
	return AssistantResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		LastUsedAt:  a.LastUsedAt.Format(time.RFC3339),
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}

// FromAssistantSlice maps a slice of mirror rows.
func FromAssistantSlice(assistants []domain.Assistant) []AssistantResponse {
	out := make([]AssistantResponse, len(assistants))
	for i, a := range assistants {
		out[i] = FromAssistant(a)
	}
	return out
}

// FromAssistantDetail maps the detail carrying fresh remote
// instructions.
func FromAssistantDetail(d assistantsvc.Detail) AssistantDetailResponse {
	return AssistantDetailResponse{
		AssistantResponse: FromAssistant(d.Assistant),
		Instructions:      d.Instructions,
	}
}
