// File: internal/services/assistant_service.go
package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmsanders/go-preceptor/internal/domain"
	"github.com/tmsanders/go-preceptor/internal/repository/assistant"
	"github.com/tmsanders/go-preceptor/internal/services/ai"
	assistantsvc "github.com/tmsanders/go-preceptor/internal/services/assistant"
	"github.com/tmsanders/go-preceptor/internal/services/dualwrite"
)

// AssistantService owns the assistant lifecycle. Every mutation is a
// dual write: the hosted side holds the instructions and the
// conversational state, the local store holds ownership and listings.
type AssistantService struct {
	assistantRepo assistant.AssistantRepository
	gateway       ai.Gateway
	logger        Logger
}

func NewAssistantService(
	assistantRepo assistant.AssistantRepository,
	gateway ai.Gateway,
	logger Logger,
) (*AssistantService, error) {
	if assistantRepo == nil {
		return nil, assistantsvc.NewValidationError("constructor", "assistant repository is required")
	}
	if gateway == nil {
		return nil, assistantsvc.NewValidationError("constructor", "AI gateway is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &AssistantService{
		assistantRepo: assistantRepo,
		gateway:       gateway,
		logger:        logger,
	}, nil
}

// CreateAssistant registers the assistant remotely first, then mirrors
// it locally. If the local insert fails the hosted assistant is deleted
// again, so a half-created assistant never survives.
func (s *AssistantService) CreateAssistant(ctx context.Context, userID, name, description, instructions string) (*domain.Assistant, error) {
	name = strings.TrimSpace(name)
	if userID == "" {
		return nil, assistantsvc.NewValidationError("create_assistant", "user id is required")
	}
	if name == "" {
		return nil, assistantsvc.NewValidationError("create_assistant", "assistant name cannot be empty")
	}

	var (
		remote  *ai.RemoteAssistant
		created *domain.Assistant
	)
	seq := dualwrite.NewSequence("create_assistant", s.logger,
		dualwrite.Step{
			Name: "remote_create",
			Run: func(ctx context.Context) error {
				r, err := s.gateway.CreateAssistant(ctx, name, description, instructions)
				if err != nil {
					return assistantsvc.NewRemoteError("create_assistant", "could not create hosted assistant", err)
				}
				remote = r
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.gateway.DeleteAssistant(ctx, remote.ID)
			},
		},
		dualwrite.Step{
			Name: "local_insert",
			Run: func(ctx context.Context) error {
				now := time.Now().UTC()
				rec := &domain.Assistant{
					ID:          uuid.NewString(),
					UserID:      userID,
					Name:        name,
					Description: description,
					RemoteID:    remote.ID,
					LastUsedAt:  now,
					CreatedAt:   now,
				}
				saved, err := s.assistantRepo.Create(ctx, rec)
				if err != nil {
					return assistantsvc.NewStoreError("create_assistant", "could not save assistant", err)
				}
				created = saved
				return nil
			},
		},
	)
	if err := seq.Run(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("assistant created",
		"assistant_id", created.ID,
		"remote_id", created.RemoteID,
		"user_id", userID)
	return created, nil
}

// GetUserAssistants lists the caller's assistants, most recently used
// first. Served entirely from the local mirror.
func (s *AssistantService) GetUserAssistants(ctx context.Context, userID string) ([]domain.Assistant, error) {
	records, err := s.assistantRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, assistantsvc.NewStoreError("list_assistants", "could not list assistants", err)
	}
	return records, nil
}

// GetAssistant returns the local record together with the hosted
// instructions, which are never cached locally.
func (s *AssistantService) GetAssistant(ctx context.Context, userID, assistantID string) (*assistantsvc.Detail, error) {
	rec, err := s.authorize(ctx, userID, assistantID)
	if err != nil {
		return nil, err
	}

	remote, err := s.gateway.GetAssistant(ctx, rec.RemoteID)
	if err != nil {
		return nil, assistantsvc.NewRemoteError("get_assistant", "could not load hosted assistant", err)
	}

	return &assistantsvc.Detail{Assistant: *rec, Instructions: remote.Instructions}, nil
}

// UpdateAssistant applies a partial edit remote-first. The local mirror
// is only touched after the remote accepts the change; a failed mirror
// write is surfaced but not rolled back remotely, since the remote
// state is already what the caller asked for.
func (s *AssistantService) UpdateAssistant(ctx context.Context, userID, assistantID string, fields assistantsvc.UpdateFields) (*domain.Assistant, error) {
	if fields.Name == nil && fields.Description == nil && fields.Instructions == nil {
		return nil, assistantsvc.NewValidationError("update_assistant", "no fields to update")
	}
	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		return nil, assistantsvc.NewValidationError("update_assistant", "assistant name cannot be empty")
	}

	rec, err := s.authorize(ctx, userID, assistantID)
	if err != nil {
		return nil, err
	}

	_, err = s.gateway.UpdateAssistant(ctx, rec.RemoteID, ai.AssistantFields{
		Name:         fields.Name,
		Description:  fields.Description,
		Instructions: fields.Instructions,
	})
	if err != nil {
		return nil, assistantsvc.NewRemoteError("update_assistant", "could not update hosted assistant", err)
	}

	if fields.Name != nil {
		rec.Name = strings.TrimSpace(*fields.Name)
	}
	if fields.Description != nil {
		rec.Description = *fields.Description
	}
	// Instructions live only remotely; a pure instruction edit needs no
	// local write.
	if fields.Name != nil || fields.Description != nil {
		if err := s.assistantRepo.Update(ctx, rec.ID, rec.Name, rec.Description); err != nil {
			s.logger.Error("assistant mirror update failed after remote update",
				"assistant_id", rec.ID,
				"remote_id", rec.RemoteID,
				"error", err)
			return nil, assistantsvc.NewStoreError("update_assistant", "could not save assistant", err)
		}
	}

	return rec, nil
}

// DeleteAssistant removes the hosted assistant first and deletes the
// local record only after the remote confirms. A remote failure leaves
// everything in place; the local cascade also removes the assistant's
// documents, threads and messages. Hosted threads and files belonging
// to the assistant are left to the hosted service's own lifecycle.
func (s *AssistantService) DeleteAssistant(ctx context.Context, userID, assistantID string) error {
	rec, err := s.authorize(ctx, userID, assistantID)
	if err != nil {
		return err
	}

	if err := s.gateway.DeleteAssistant(ctx, rec.RemoteID); err != nil {
		return assistantsvc.NewRemoteError("delete_assistant", "could not delete hosted assistant", err)
	}

	if err := s.assistantRepo.Delete(ctx, rec.ID); err != nil {
		// The hosted assistant is already gone; the stale mirror row is
		// the recoverable side, so log loudly and surface the failure.
		s.logger.Error("local delete failed after remote delete",
			"assistant_id", rec.ID,
			"remote_id", rec.RemoteID,
			"error", err)
		return assistantsvc.NewStoreError("delete_assistant", "could not delete assistant", err)
	}

	s.logger.Info("assistant deleted", "assistant_id", rec.ID, "user_id", userID)
	return nil
}

// authorize loads the assistant and confirms ownership. Missing and
// foreign rows get distinct internal types; the HTTP layer collapses
// both into one response so ids cannot be probed.
func (s *AssistantService) authorize(ctx context.Context, userID, assistantID string) (*domain.Assistant, error) {
	rec, err := s.assistantRepo.FindByID(ctx, assistantID)
	if err != nil {
		return nil, assistantsvc.NewNotFoundError(assistantID)
	}
	if rec.UserID != userID {
		return nil, assistantsvc.NewUnauthorizedError(userID, assistantID)
	}
	return rec, nil
}
