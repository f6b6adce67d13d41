// File: internal/services/ai/interface.go
package ai

import "context"

// RemoteAssistant is the hosted service's record of one assistant.
// Instructions live only here; the local mirror never stores them.
type RemoteAssistant struct {
	ID           string
	Name         string
	Description  string
	Instructions string
	Model        string
}

// RemoteThread is the hosted service's record of one conversation.
type RemoteThread struct {
	ID string
}

// RemoteMessage is one entry of a thread's remote message list.
type RemoteMessage struct {
	ID   string
	Role string
	Text string
}

// TurnResult is the outcome of running an assistant against a thread.
// Messages is populated only for a completed run, newest first.
type TurnResult struct {
	Status   string
	Messages []RemoteMessage
}

// AssistantFields is a partial update; nil fields are left unchanged.
type AssistantFields struct {
	Name         *string
	Description  *string
	Instructions *string
}

// AssistantProvider manages hosted assistant resources.
type AssistantProvider interface {
	// CreateAssistant registers a hosted assistant with document search
	// enabled. Empty instructions default to a generated string that
	// references the assistant's name.
	CreateAssistant(ctx context.Context, name, description, instructions string) (*RemoteAssistant, error)
	GetAssistant(ctx context.Context, id string) (*RemoteAssistant, error)
	UpdateAssistant(ctx context.Context, id string, fields AssistantFields) (*RemoteAssistant, error)
	DeleteAssistant(ctx context.Context, id string) error
}

// ThreadProvider manages hosted conversation threads.
type ThreadProvider interface {
	CreateThread(ctx context.Context) (*RemoteThread, error)
	DeleteThread(ctx context.Context, id string) error
	PostMessage(ctx context.Context, threadID, role, text string) error
	// ListMessages returns the thread's messages newest first. The order
	// is requested explicitly, never assumed; callers scanning for the
	// latest assistant reply depend on it.
	ListMessages(ctx context.Context, threadID string) ([]RemoteMessage, error)
}

// FileProvider manages hosted files backing document search.
type FileProvider interface {
	UploadFile(ctx context.Context, filename string, data []byte) (string, error)
	DeleteFile(ctx context.Context, fileID string) error
}

// RunProvider executes conversation turns.
type RunProvider interface {
	// RunTurn submits a run and blocks until it reaches a terminal
	// status, polling at the configured interval. The wait is bounded by
	// the configured run timeout and by ctx.
	RunTurn(ctx context.Context, threadID, assistantID string) (*TurnResult, error)
}

// Gateway combines every capability the orchestrator needs from the
// hosted-assistant service.
type Gateway interface {
	AssistantProvider
	ThreadProvider
	FileProvider
	RunProvider
}

// Logger interface for gateway operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
