// File: internal/services/ai/openai_gateway.go
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGateway implements Gateway against the OpenAI Assistants API.
// Every call is a network round trip; no local state lives here.
type OpenAIGateway struct {
	config *Config
	client *openai.Client
	retry  *RetryService
	logger Logger
}

func NewOpenAIGateway(config *Config, logger Logger) (*OpenAIGateway, error) {
	if config == nil {
		return nil, NewConfigError("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIGateway{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
		retry:  NewRetryService(config, logger),
		logger: logger,
	}, nil
}

// CreateAssistant registers a hosted assistant with document search
// enabled. Empty instructions fall back to a generated default that
// mentions the assistant by name.
func (g *OpenAIGateway) CreateAssistant(ctx context.Context, name, description, instructions string) (*RemoteAssistant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("create_assistant", "assistant name is required")
	}
	if strings.TrimSpace(instructions) == "" {
		instructions = fmt.Sprintf("You are a helpful teaching assistant for %s.", name)
	}

	resp, err := g.client.CreateAssistant(ctx, openai.AssistantRequest{
		Model:        g.config.Model,
		Name:         &name,
		Description:  &description,
		Instructions: &instructions,
		Tools:        []openai.AssistantTool{{Type: openai.AssistantToolTypeFileSearch}},
	})
	if err != nil {
		return nil, NewProviderError("create_assistant", "failed to create remote assistant", err)
	}

	g.logger.Info("remote assistant created", "remote_id", resp.ID, "model", resp.Model)
	return remoteAssistantFromResponse(resp), nil
}

func (g *OpenAIGateway) GetAssistant(ctx context.Context, id string) (*RemoteAssistant, error) {
	if id == "" {
		return nil, NewValidationError("get_assistant", "assistant ID is required")
	}

	var out *RemoteAssistant
	err := g.retry.RetryWithTimeout(ctx, func(ctx context.Context) error {
		resp, err := g.client.RetrieveAssistant(ctx, id)
		if err != nil {
			return NewProviderError("get_assistant", "failed to fetch remote assistant", err)
		}
		out = remoteAssistantFromResponse(resp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *OpenAIGateway) UpdateAssistant(ctx context.Context, id string, fields AssistantFields) (*RemoteAssistant, error) {
	if id == "" {
		return nil, NewValidationError("update_assistant", "assistant ID is required")
	}
	if fields.Name == nil && fields.Description == nil && fields.Instructions == nil {
		return nil, NewValidationError("update_assistant", "no fields to update")
	}

	// Absent fields stay untouched on the remote side; the model is
	// always sent because the request type requires one.
	resp, err := g.client.ModifyAssistant(ctx, id, openai.AssistantRequest{
		Model:        g.config.Model,
		Name:         fields.Name,
		Description:  fields.Description,
		Instructions: fields.Instructions,
	})
	if err != nil {
		return nil, NewProviderError("update_assistant", "failed to update remote assistant", err)
	}

	g.logger.Info("remote assistant updated", "remote_id", id)
	return remoteAssistantFromResponse(resp), nil
}

func (g *OpenAIGateway) DeleteAssistant(ctx context.Context, id string) error {
	if id == "" {
		return NewValidationError("delete_assistant", "assistant ID is required")
	}

	if _, err := g.client.DeleteAssistant(ctx, id); err != nil {
		return NewProviderError("delete_assistant", "failed to delete remote assistant", err)
	}

	g.logger.Info("remote assistant deleted", "remote_id", id)
	return nil
}

func (g *OpenAIGateway) CreateThread(ctx context.Context) (*RemoteThread, error) {
	resp, err := g.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return nil, NewProviderError("create_thread", "failed to create remote thread", err)
	}

	g.logger.Info("remote thread created", "remote_thread_id", resp.ID)
	return &RemoteThread{ID: resp.ID}, nil
}

func (g *OpenAIGateway) DeleteThread(ctx context.Context, id string) error {
	if id == "" {
		return NewValidationError("delete_thread", "thread ID is required")
	}

	if _, err := g.client.DeleteThread(ctx, id); err != nil {
		return NewProviderError("delete_thread", "failed to delete remote thread", err)
	}

	g.logger.Info("remote thread deleted", "remote_thread_id", id)
	return nil
}

func (g *OpenAIGateway) PostMessage(ctx context.Context, threadID, role, text string) error {
	if threadID == "" {
		return NewValidationError("post_message", "thread ID is required")
	}
	if role != "user" && role != "assistant" {
		return NewValidationError("post_message", fmt.Sprintf("unsupported message role: %s", role))
	}
	if strings.TrimSpace(text) == "" {
		return NewValidationError("post_message", "message text cannot be empty")
	}

	_, err := g.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    role,
		Content: text,
	})
	if err != nil {
		return NewProviderError("post_message", "failed to post message to remote thread", err)
	}

	return nil
}

// ListMessages requests newest-first ordering explicitly rather than
// relying on the provider default.
func (g *OpenAIGateway) ListMessages(ctx context.Context, threadID string) ([]RemoteMessage, error) {
	if threadID == "" {
		return nil, NewValidationError("list_messages", "thread ID is required")
	}

	order := "desc"
	var out []RemoteMessage
	err := g.retry.RetryWithTimeout(ctx, func(ctx context.Context) error {
		resp, err := g.client.ListMessage(ctx, threadID, nil, &order, nil, nil, nil)
		if err != nil {
			return NewProviderError("list_messages", "failed to list remote messages", err)
		}
		out = out[:0]
		for _, m := range resp.Messages {
			out = append(out, remoteMessageFromResponse(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *OpenAIGateway) UploadFile(ctx context.Context, filename string, data []byte) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", NewValidationError("upload_file", "filename is required")
	}
	if len(data) == 0 {
		return "", NewValidationError("upload_file", "file data cannot be empty")
	}

	resp, err := g.client.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    filename,
		Bytes:   data,
		Purpose: openai.PurposeAssistants,
	})
	if err != nil {
		return "", NewProviderError("upload_file", "failed to upload file to remote store", err)
	}

	g.logger.Info("remote file uploaded", "remote_file_id", resp.ID, "filename", filename)
	return resp.ID, nil
}

func (g *OpenAIGateway) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return NewValidationError("delete_file", "file ID is required")
	}

	if err := g.client.DeleteFile(ctx, fileID); err != nil {
		return NewProviderError("delete_file", "failed to delete remote file", err)
	}

	g.logger.Info("remote file deleted", "remote_file_id", fileID)
	return nil
}

// RunTurn submits a run and polls until a terminal status. Only
// completed yields messages; every other terminal status fails with the
// status name as the reason. The wait is bounded by RunTimeout and ctx.
func (g *OpenAIGateway) RunTurn(ctx context.Context, threadID, assistantID string) (*TurnResult, error) {
	if threadID == "" || assistantID == "" {
		return nil, NewValidationError("run_turn", "thread ID and assistant ID are required")
	}

	run, err := g.client.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: assistantID})
	if err != nil {
		return nil, NewProviderError("run_turn", "failed to submit run", err)
	}

	g.logger.Debug("run submitted", "run_id", run.ID, "thread_id", threadID)

	deadline := time.NewTimer(g.config.RunTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(g.config.PollInterval)
	defer ticker.Stop()

	for {
		switch run.Status {
		case openai.RunStatusCompleted:
			messages, err := g.ListMessages(ctx, threadID)
			if err != nil {
				return nil, err
			}
			g.logger.Info("run completed", "run_id", run.ID, "thread_id", threadID)
			return &TurnResult{Status: string(openai.RunStatusCompleted), Messages: messages}, nil

		case openai.RunStatusFailed,
			openai.RunStatusCancelled,
			openai.RunStatusExpired,
			openai.RunStatusIncomplete,
			openai.RunStatusRequiresAction:
			// requires_action counts as a failure here: no tools that
			// could supply outputs are ever registered.
			g.logger.Warn("run ended without completion", "run_id", run.ID, "status", run.Status)
			return nil, NewRunError("run_turn", string(run.Status))
		}

		select {
		case <-ctx.Done():
			return nil, NewTimeoutError("run polling cancelled", ctx.Err())
		case <-deadline.C:
			return nil, NewTimeoutError(fmt.Sprintf("run did not reach a terminal state within %s", g.config.RunTimeout), nil)
		case <-ticker.C:
		}

		run, err = g.client.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			return nil, NewProviderError("run_turn", "failed to poll run status", err)
		}
	}
}

func remoteAssistantFromResponse(a openai.Assistant) *RemoteAssistant {
	out := &RemoteAssistant{ID: a.ID, Model: a.Model}
	if a.Name != nil {
		out.Name = *a.Name
	}
	if a.Description != nil {
		out.Description = *a.Description
	}
	if a.Instructions != nil {
		out.Instructions = *a.Instructions
	}
	return out
}

func remoteMessageFromResponse(m openai.Message) RemoteMessage {
	out := RemoteMessage{ID: m.ID, Role: m.Role}
	for _, part := range m.Content {
		if part.Type == "text" && part.Text != nil {
			out.Text = part.Text.Value
			break
		}
	}
	return out
}
