// File: internal/services/assistant/errors.go
package assistant

import "fmt"

type ErrorType string

const (
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeRemote       ErrorType = "REMOTE"
	ErrTypeStore        ErrorType = "STORE"
)

// AssistantError is the workflow-level error for assistant lifecycle
// operations. Unauthorized and NotFound stay distinct here for logs and
// tests; the HTTP boundary collapses them into one generic message.
type AssistantError struct {
	Type        ErrorType
	Operation   string
	Message     string
	AssistantID string
	UserID      string
	Cause       error
}

func (e *AssistantError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Assistant %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Assistant %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AssistantError) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation, msg string) *AssistantError {
	return &AssistantError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewUnauthorizedError(userID, assistantID string) *AssistantError {
	return &AssistantError{
		Type:        ErrTypeUnauthorized,
		Operation:   "authorization",
		Message:     "assistant not found or unauthorized",
		UserID:      userID,
		AssistantID: assistantID,
	}
}

func NewNotFoundError(assistantID string) *AssistantError {
	return &AssistantError{
		Type:        ErrTypeNotFound,
		Operation:   "lookup",
		Message:     "assistant not found",
		AssistantID: assistantID,
	}
}

func NewRemoteError(operation, msg string, cause error) *AssistantError {
	return &AssistantError{Type: ErrTypeRemote, Operation: operation, Message: msg, Cause: cause}
}

func NewStoreError(operation, msg string, cause error) *AssistantError {
	return &AssistantError{Type: ErrTypeStore, Operation: operation, Message: msg, Cause: cause}
}
