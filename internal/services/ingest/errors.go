// File: internal/services/ingest/errors.go
package ingest

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeExtraction ErrorType = "EXTRACTION"
)

// IngestError carries the reason an upload was rejected. Validation
// messages are user-safe and surface to the caller verbatim.
type IngestError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *IngestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Ingest %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Ingest %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *IngestError) Unwrap() error {
	return e.Cause
}

func NewConfigError(msg string) *IngestError {
	return &IngestError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

func NewValidationError(operation, msg string) *IngestError {
	return &IngestError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewExtractionError(operation, msg string, cause error) *IngestError {
	return &IngestError{Type: ErrTypeExtraction, Operation: operation, Message: msg, Cause: cause}
}
