// File: internal/services/document/errors.go
package document

import "fmt"

type ErrorType string

const (
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeRemote       ErrorType = "REMOTE"
	ErrTypeStore        ErrorType = "STORE"
)

// DocumentError is the workflow-level error for document ingestion and
// removal. Validation messages come from the ingest checks and are safe
// to show to the uploader verbatim.
type DocumentError struct {
	Type        ErrorType
	Operation   string
	Message     string
	DocumentID  string
	AssistantID string
	UserID      string
	Cause       error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Document %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Document %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation, msg string) *DocumentError {
	return &DocumentError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewUnauthorizedError(userID, documentID string) *DocumentError {
	return &DocumentError{
		Type:       ErrTypeUnauthorized,
		Operation:  "authorization",
		Message:    "document not found or unauthorized",
		UserID:     userID,
		DocumentID: documentID,
	}
}

// NewAssistantUnauthorizedError guards upload and list: the target
// assistant must belong to the caller.
func NewAssistantUnauthorizedError(userID, assistantID string) *DocumentError {
	return &DocumentError{
		Type:        ErrTypeUnauthorized,
		Operation:   "authorization",
		Message:     "assistant not found or unauthorized",
		UserID:      userID,
		AssistantID: assistantID,
	}
}

func NewNotFoundError(documentID string) *DocumentError {
	return &DocumentError{
		Type:       ErrTypeNotFound,
		Operation:  "lookup",
		Message:    "document not found",
		DocumentID: documentID,
	}
}

func NewRemoteError(operation, msg string, cause error) *DocumentError {
	return &DocumentError{Type: ErrTypeRemote, Operation: operation, Message: msg, Cause: cause}
}

func NewStoreError(operation, msg string, cause error) *DocumentError {
	return &DocumentError{Type: ErrTypeStore, Operation: operation, Message: msg, Cause: cause}
}
