// File: internal/services/ai/errors.go
package ai

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeRun        ErrorType = "RUN"
	ErrTypeTimeout    ErrorType = "TIMEOUT"
	ErrTypeRetry      ErrorType = "RETRY"
)

type AIError struct {
	Type      ErrorType
	Operation string
	Message   string
	RunStatus string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error {
	return e.Cause
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

func NewValidationError(operation, msg string) *AIError {
	return &AIError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewProviderError(operation, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}

// NewRunError reports a run that reached a terminal state other than
// completed; the status name is the reason.
func NewRunError(operation, status string) *AIError {
	return &AIError{
		Type:      ErrTypeRun,
		Operation: operation,
		Message:   fmt.Sprintf("run ended with status %s", status),
		RunStatus: status,
	}
}

func NewTimeoutError(msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeTimeout, Operation: "run_turn", Message: msg, Cause: cause}
}

func NewRetryError(msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeRetry, Operation: "retry", Message: msg, Cause: cause}
}
