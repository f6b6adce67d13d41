// File: internal/services/chat/errors.go
package chat

import "fmt"

type ErrorType string

const (
	ErrTypeConfig       ErrorType = "CONFIG"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeRemote       ErrorType = "REMOTE"
	ErrTypeStore        ErrorType = "STORE"
	ErrTypeTurn         ErrorType = "TURN"
)

// ChatError is the workflow-level error for thread lifecycle and
// conversation turns.
type ChatError struct {
	Type        ErrorType
	Operation   string
	Message     string
	ThreadID    string
	AssistantID string
	UserID      string
	Cause       error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Cause
}

func NewConfigError(msg string) *ChatError {
	return &ChatError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewUnauthorizedError(userID, threadID string) *ChatError {
	return &ChatError{
		Type:      ErrTypeUnauthorized,
		Operation: "authorization",
		Message:   "thread not found or unauthorized",
		UserID:    userID,
		ThreadID:  threadID,
	}
}

// NewAssistantUnauthorizedError guards thread creation: the parent
// assistant must belong to the caller.
func NewAssistantUnauthorizedError(userID, assistantID string) *ChatError {
	return &ChatError{
		Type:        ErrTypeUnauthorized,
		Operation:   "authorization",
		Message:     "assistant not found or unauthorized",
		UserID:      userID,
		AssistantID: assistantID,
	}
}

func NewNotFoundError(threadID string) *ChatError {
	return &ChatError{
		Type:      ErrTypeNotFound,
		Operation: "lookup",
		Message:   "thread not found",
		ThreadID:  threadID,
	}
}

func NewRemoteError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeRemote, Operation: operation, Message: msg, Cause: cause}
}

func NewStoreError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStore, Operation: operation, Message: msg, Cause: cause}
}

// NewTurnError reports a conversation turn that ran but produced no
// reply to mirror: the run ended non-completed, or its message list
// carried no assistant entry.
func NewTurnError(operation, msg, threadID string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeTurn, Operation: operation, Message: msg, ThreadID: threadID, Cause: cause}
}
