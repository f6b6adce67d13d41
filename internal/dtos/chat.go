// File: internal/dtos/chat.go
package dtos

import (
	"time"

	"github.com/tmsanders/go-preceptor/internal/domain"
	"github.com/tmsanders/go-preceptor/internal/repository/thread"
)

// CreateThreadRequest opens a conversation with one assistant.
type CreateThreadRequest struct {
	AssistantID string  `json:"assistant_id" validate:"required"`
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// SendMessageRequest is one user turn.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// ThreadResponse is the API view of one thread.
type ThreadResponse struct {
	ID            string  `json:"id"`
	AssistantID   string  `json:"assistant_id"`
	AssistantName string  `json:"assistant_name,omitempty"`
	Name          *string `json:"name,omitempty"`
	LastMessageAt string  `json:"last_message_at"`
	CreatedAt     string  `json:"created_at"`
}

// MessageResponse is the API view of one mirrored message.
type MessageResponse struct {
	ID        string `json:"id"`
	ThreadID  string `json:"thread_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// FromThread maps a freshly created thread row.
func FromThread(t domain.ChatThread) ThreadResponse {
	return ThreadResponse{
		ID:            t.ID,
		AssistantID:   t.AssistantID,
		Name:          t.Name,
		LastMessageAt: t.LastMessageAt.Format(time.RFC3339),
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

// FromThreadListItem maps a listing row joined with its assistant name.
func FromThreadListItem(item thread.ThreadListItem) ThreadResponse {
	return ThreadResponse{
		ID:            item.ID,
		AssistantID:   item.AssistantID,
		AssistantName: item.AssistantName,
		Name:          item.Name,
		LastMessageAt: item.LastMessageAt.Format(time.RFC3339),
		CreatedAt:     item.CreatedAt.Format(time.RFC3339),
	}
}

// FromThreadListItemSlice maps a listing.
func FromThreadListItemSlice(items []thread.ThreadListItem) []ThreadResponse {
	out := make([]ThreadResponse, len(items))
	for i, item := range items {
		out[i] = FromThreadListItem(item)
	}
	return out
}

// FromMessage maps a mirrored message row.
func FromMessage(m domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

// FromMessageSlice maps a message listing.
func FromMessageSlice(messages []domain.ChatMessage) []MessageResponse {
	out := make([]MessageResponse, len(messages))
	for i, m := range messages {
		out[i] = FromMessage(m)
	}
	return out
}
