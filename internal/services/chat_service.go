// File: internal/services/chat_service.go
package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tmsanders/go-preceptor/internal/domain"
	"github.com/tmsanders/go-preceptor/internal/repository/assistant"
	"github.com/tmsanders/go-preceptor/internal/repository/message"
	"github.com/tmsanders/go-preceptor/internal/repository/thread"
	"github.com/tmsanders/go-preceptor/internal/services/ai"
	chatservice "github.com/tmsanders/go-preceptor/internal/services/chat"
	"github.com/tmsanders/go-preceptor/internal/services/dualwrite"
)

// ChatService owns threads and conversation turns. The hosted thread is
// the conversational source of truth; the local store mirrors messages
// for listing and survives remote outages read-only.
type ChatService struct {
	config        *chatservice.Config
	threadRepo    thread.ThreadRepository
	messageRepo   message.MessageRepository
	assistantRepo assistant.AssistantRepository
	gateway       ai.Gateway
	logger        Logger
}

func NewChatService(
	config *chatservice.Config,
	threadRepo thread.ThreadRepository,
	messageRepo message.MessageRepository,
	assistantRepo assistant.AssistantRepository,
	gateway ai.Gateway,
	logger Logger,
) (*ChatService, error) {
	if threadRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "thread repository is required")
	}
	if messageRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "message repository is required")
	}
	if assistantRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "assistant repository is required")
	}
	if gateway == nil {
		return nil, chatservice.NewValidationError("constructor", "AI gateway is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	if config == nil {
		config = chatservice.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, chatservice.NewConfigError(err.Error())
	}

	return &ChatService{
		config:        config,
		threadRepo:    threadRepo,
		messageRepo:   messageRepo,
		assistantRepo: assistantRepo,
		gateway:       gateway,
		logger:        logger,
	}, nil
}

// CreateThread opens a conversation with an assistant the caller owns.
// The hosted thread is created first and deleted again if the local
// mirror insert fails. After both sides exist the welcome message is
// seeded as the assistant's opening turn; seeding is cosmetic, so its
// failures are logged and swallowed.
func (s *ChatService) CreateThread(ctx context.Context, userID, assistantID string, name *string) (*domain.ChatThread, error) {
	rec, err := s.assistantRepo.FindByID(ctx, assistantID)
	if err != nil || rec.UserID != userID {
		return nil, chatservice.NewAssistantUnauthorizedError(userID, assistantID)
	}

	var (
		remote  *ai.RemoteThread
		created *domain.ChatThread
	)
	seq := dualwrite.NewSequence("create_thread", s.logger,
		dualwrite.Step{
			Name: "remote_thread",
			Run: func(ctx context.Context) error {
				r, err := s.gateway.CreateThread(ctx)
				if err != nil {
					return chatservice.NewRemoteError("create_thread", "could not create hosted thread", err)
				}
				remote = r
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.gateway.DeleteThread(ctx, remote.ID)
			},
		},
		dualwrite.Step{
			Name: "local_insert",
			Run: func(ctx context.Context) error {
				now := time.Now().UTC()
				t := &domain.ChatThread{
					ID:             uuid.NewString(),
					AssistantID:    assistantID,
					UserID:         userID,
					RemoteThreadID: remote.ID,
					Name:           name,
					LastMessageAt:  now,
					CreatedAt:      now,
				}
				saved, err := s.threadRepo.Create(ctx, t)
				if err != nil {
					return chatservice.NewStoreError("create_thread", "could not save thread", err)
				}
				created = saved
				return nil
			},
		},
	)
	if err := seq.Run(ctx); err != nil {
		return nil, err
	}

	s.seedWelcome(ctx, created)

	s.logger.Info("thread created",
		"thread_id", created.ID,
		"assistant_id", assistantID,
		"user_id", userID)
	return created, nil
}

// seedWelcome posts the fixed greeting to the hosted thread and mirrors
// it locally. Both writes are attempted independently; either may fail
// without affecting the thread itself.
func (s *ChatService) seedWelcome(ctx context.Context, t *domain.ChatThread) {
	if err := s.gateway.PostMessage(ctx, t.RemoteThreadID, domain.MessageRoleAssistant, chatservice.WelcomeMessage); err != nil {
		s.logger.Warn("welcome message remote post failed", "thread_id", t.ID, "error", err)
	}

	_, err := s.messageRepo.Create(ctx, &domain.ChatMessage{
		ID:        uuid.NewString(),
		ThreadID:  t.ID,
		Role:      domain.MessageRoleAssistant,
		Content:   chatservice.WelcomeMessage,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("welcome message mirror failed", "thread_id", t.ID, "error", err)
	}
}

// GetUserThreads lists the caller's threads across all assistants,
// most recently active first, each joined with its assistant's name.
func (s *ChatService) GetUserThreads(ctx context.Context, userID string) ([]thread.ThreadListItem, error) {
	items, err := s.threadRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, chatservice.NewStoreError("list_threads", "could not list threads", err)
	}
	return items, nil
}

// GetThreadMessages returns a thread's mirrored messages in creation
// order. Served locally; no remote call is made.
func (s *ChatService) GetThreadMessages(ctx context.Context, userID, threadID string) ([]domain.ChatMessage, error) {
	t, err := s.authorizeThread(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByThreadID(ctx, t.ID)
	if err != nil {
		return nil, chatservice.NewStoreError("list_messages", "could not load messages", err)
	}
	return messages, nil
}

// DeleteThread removes the hosted thread first and the local mirror
// only after the remote confirms, same as assistant deletion. A remote
// failure leaves both sides in place.
func (s *ChatService) DeleteThread(ctx context.Context, userID, threadID string) error {
	t, err := s.authorizeThread(ctx, userID, threadID)
	if err != nil {
		return err
	}

	if err := s.gateway.DeleteThread(ctx, t.RemoteThreadID); err != nil {
		return chatservice.NewRemoteError("delete_thread", "could not delete hosted thread", err)
	}

	if err := s.threadRepo.Delete(ctx, t.ID); err != nil {
		s.logger.Error("local delete failed after remote delete",
			"thread_id", t.ID,
			"remote_thread_id", t.RemoteThreadID,
			"error", err)
		return chatservice.NewStoreError("delete_thread", "could not delete thread", err)
	}

	s.logger.Info("thread deleted", "thread_id", t.ID, "user_id", userID)
	return nil
}

// SendMessage runs one conversation turn: mirror the user's message
// locally, post it to the hosted thread, run the assistant, and mirror
// the first assistant reply back. The local user message is written
// before any remote call and deliberately survives a failed turn, so
// the student sees what they sent even when no reply arrived.
func (s *ChatService) SendMessage(ctx context.Context, userID, threadID, content string) (*domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, chatservice.NewValidationError("send_message", "message cannot be empty")
	}
	if utf8.RuneCountInString(content) > s.config.MaxMessageLength {
		return nil, chatservice.NewValidationError("send_message", "message exceeds maximum length")
	}

	t, err := s.authorizeThread(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}
	asst, err := s.assistantRepo.FindByID(ctx, t.AssistantID)
	if err != nil {
		return nil, chatservice.NewStoreError("send_message", "could not load thread assistant", err)
	}

	count, err := s.messageRepo.CountByThreadID(ctx, t.ID)
	if err != nil {
		return nil, chatservice.NewStoreError("send_message", "could not count messages", err)
	}
	if count >= int64(s.config.MaxThreadMessages) {
		return nil, chatservice.NewValidationError("send_message", "thread message limit reached")
	}

	userMsg, err := s.messageRepo.Create(ctx, &domain.ChatMessage{
		ID:        uuid.NewString(),
		ThreadID:  t.ID,
		Role:      domain.MessageRoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, chatservice.NewStoreError("send_message", "could not save message", err)
	}

	if err := s.gateway.PostMessage(ctx, t.RemoteThreadID, domain.MessageRoleUser, content); err != nil {
		return nil, chatservice.NewTurnError("send_message", "could not deliver message", t.ID, err)
	}

	result, err := s.gateway.RunTurn(ctx, t.RemoteThreadID, asst.RemoteID)
	if err != nil {
		return nil, chatservice.NewTurnError("send_message", "assistant did not reply", t.ID, err)
	}

	replyText, ok := pickAssistantReply(result.Messages)
	if !ok {
		return nil, chatservice.NewTurnError("send_message", "no assistant reply in completed run", t.ID, nil)
	}

	// A reply stamped no later than the user's message would not bump
	// the thread's last_message_at; keep it strictly after.
	replyAt := time.Now().UTC()
	if !replyAt.After(userMsg.CreatedAt) {
		replyAt = userMsg.CreatedAt.Add(time.Millisecond)
	}
	reply, err := s.messageRepo.Create(ctx, &domain.ChatMessage{
		ID:        uuid.NewString(),
		ThreadID:  t.ID,
		Role:      domain.MessageRoleAssistant,
		Content:   replyText,
		CreatedAt: replyAt,
	})
	if err != nil {
		// The hosted thread holds the reply but the mirror does not;
		// surface the failure rather than pretend the turn finished.
		s.logger.Error("reply mirror failed after completed run",
			"thread_id", t.ID,
			"remote_thread_id", t.RemoteThreadID,
			"error", err)
		return nil, chatservice.NewStoreError("send_message", "could not save assistant reply", err)
	}

	if err := s.assistantRepo.TouchLastUsed(ctx, asst.ID); err != nil {
		s.logger.Warn("last-used bump failed", "assistant_id", asst.ID, "error", err)
	}

	return reply, nil
}

// pickAssistantReply scans a newest-first remote message list for the
// latest assistant entry with text content.
func pickAssistantReply(messages []ai.RemoteMessage) (string, bool) {
	for _, m := range messages {
		if m.Role == domain.MessageRoleAssistant && m.Text != "" {
			return m.Text, true
		}
	}
	return "", false
}

func (s *ChatService) authorizeThread(ctx context.Context, userID, threadID string) (*domain.ChatThread, error) {
	t, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return nil, chatservice.NewNotFoundError(threadID)
	}
	if t.UserID != userID {
		return nil, chatservice.NewUnauthorizedError(userID, threadID)
	}
	return t, nil
}
