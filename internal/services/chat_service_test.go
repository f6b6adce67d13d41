// File: internal/services/chat_service_test.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tmsanders/go-preceptor/internal/domain"
	"github.com/tmsanders/go-preceptor/internal/repository/assistant"
	"github.com/tmsanders/go-preceptor/internal/repository/message"
	"github.com/tmsanders/go-preceptor/internal/repository/thread"
	"github.com/tmsanders/go-preceptor/internal/services/ai"
	chatservice "github.com/tmsanders/go-preceptor/internal/services/chat"
)

type chatHarness struct {
	svc           *ChatService
	threadRepo    thread.ThreadRepository
	messageRepo   message.MessageRepository
	assistantRepo assistant.AssistantRepository
	gw            *fakeGateway
}

func newChatHarness(t *testing.T) *chatHarness {
	t.Helper()
	db := newTestDB(t)
	threadRepo := thread.NewThreadRepository(db)
	messageRepo := message.NewMessageRepository(db)
	assistantRepo := assistant.NewAssistantRepository(db)
	if _, err := assistantRepo.Create(context.Background(), &domain.Assistant{
		ID: "a-1", UserID: "u-1", Name: "Bio Helper", RemoteID: "asst_1",
	}); err != nil {
		t.Fatalf("seed assistant: %v", err)
	}

	gw := &fakeGateway{}
	svc, err := NewChatService(nil, threadRepo, messageRepo, assistantRepo, gw, &NoOpLogger{})
	if err != nil {
		t.Fatalf("NewChatService() error = %v", err)
	}
	return &chatHarness{
		svc:           svc,
		threadRepo:    threadRepo,
		messageRepo:   messageRepo,
		assistantRepo: assistantRepo,
		gw:            gw,
	}
}

func TestCreateThreadSeedsWelcome(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}
	if created.RemoteThreadID != "thread_fake_1" {
		t.Fatalf("created.RemoteThreadID = %q, want %q", created.RemoteThreadID, "thread_fake_1")
	}

	if len(h.gw.posted) != 1 {
		t.Fatalf("remote posts = %d, want 1 welcome", len(h.gw.posted))
	}
	if h.gw.posted[0].Role != domain.MessageRoleAssistant || h.gw.posted[0].Text != chatservice.WelcomeMessage {
		t.Fatalf("remote welcome = %+v, want assistant role with fixed greeting", h.gw.posted[0])
	}

	messages, err := h.messageRepo.FindByThreadID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByThreadID() error = %v", err)
	}
	if len(messages) != 1 || messages[0].Role != domain.MessageRoleAssistant || messages[0].Content != chatservice.WelcomeMessage {
		t.Fatalf("mirrored messages = %+v, want the welcome alone", messages)
	}
}

func TestCreateThreadCompensatesRemoteOnLocalFailure(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	// Occupy the remote thread ID the fake will hand out so the mirror
	// insert hits the unique index.
	if _, err := h.threadRepo.Create(ctx, &domain.ChatThread{
		ID: "t-0", AssistantID: "a-1", UserID: "u-1", RemoteThreadID: "thread_fake_1",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err == nil {
		t.Fatalf("CreateThread() expected error when mirror insert fails")
	}
	if h.gw.threadsDeleted != 1 || h.gw.deletedThreadIDs[0] != "thread_fake_1" {
		t.Fatalf("remote thread deletes = %d (%v), want compensation of thread_fake_1",
			h.gw.threadsDeleted, h.gw.deletedThreadIDs)
	}
}

func TestCreateThreadRequiresOwnedAssistant(t *testing.T) {
	h := newChatHarness(t)

	_, err := h.svc.CreateThread(context.Background(), "u-2", "a-1", nil)
	var cerr *chatservice.ChatError
	if !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeUnauthorized {
		t.Fatalf("error = %v, want ChatError of type UNAUTHORIZED", err)
	}
	if h.gw.threadsCreated != 0 {
		t.Fatalf("remote threads created = %d for unauthorized caller, want 0", h.gw.threadsCreated)
	}
}

func TestCreateThreadSurvivesWelcomeFailure(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()
	h.gw.postMessageErr = errors.New("remote down")

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v, want welcome failure swallowed", err)
	}

	if _, err := h.threadRepo.FindByID(ctx, created.ID); err != nil {
		t.Fatalf("thread missing after welcome failure: %v", err)
	}
	// The local mirror is still seeded; only the remote post was lost.
	messages, _ := h.messageRepo.FindByThreadID(ctx, created.ID)
	if len(messages) != 1 {
		t.Fatalf("mirrored messages = %d, want welcome mirrored locally", len(messages))
	}
}

func TestSendMessageMirrorsTurn(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	// Newest first, as the hosted API returns them.
	h.gw.turnResult = &ai.TurnResult{
		Status: "completed",
		Messages: []ai.RemoteMessage{
			{ID: "m3", Role: "assistant", Text: "Correct! Next question."},
			{ID: "m2", Role: "user", Text: "The mitochondria."},
			{ID: "m1", Role: "assistant", Text: chatservice.WelcomeMessage},
		},
	}

	reply, err := h.svc.SendMessage(ctx, "u-1", created.ID, "The mitochondria.")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if reply.Role != domain.MessageRoleAssistant || reply.Content != "Correct! Next question." {
		t.Fatalf("reply = %+v, want newest assistant entry mirrored", reply)
	}
	if h.gw.runs != 1 {
		t.Fatalf("runs = %d, want 1", h.gw.runs)
	}

	// welcome, user message, assistant reply, in order.
	messages, _ := h.messageRepo.FindByThreadID(ctx, created.ID)
	if len(messages) != 3 {
		t.Fatalf("mirrored messages = %d, want 3", len(messages))
	}
	if messages[1].Role != domain.MessageRoleUser || messages[1].Content != "The mitochondria." {
		t.Fatalf("messages[1] = %+v, want the user's message", messages[1])
	}
	if messages[2].Content != "Correct! Next question." {
		t.Fatalf("messages[2] = %+v, want the reply", messages[2])
	}

	found, _ := h.threadRepo.FindByID(ctx, created.ID)
	if found.LastMessageAt.Before(reply.CreatedAt) {
		t.Fatalf("thread.LastMessageAt = %v, want bumped to reply time %v", found.LastMessageAt, reply.CreatedAt)
	}

	asst, _ := h.assistantRepo.FindByID(ctx, "a-1")
	if asst.LastUsedAt.IsZero() {
		t.Fatalf("assistant.LastUsedAt still zero after completed turn")
	}
}

func TestSendMessageKeepsUserMessageOnRunFailure(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	h.gw.runTurnErr = errors.New("run ended with status failed")
	_, err = h.svc.SendMessage(ctx, "u-1", created.ID, "Is it the nucleus?")
	var cerr *chatservice.ChatError
	if !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeTurn {
		t.Fatalf("error = %v, want ChatError of type TURN", err)
	}

	// The student's message stays mirrored even though no reply came.
	messages, _ := h.messageRepo.FindByThreadID(ctx, created.ID)
	if len(messages) != 2 {
		t.Fatalf("mirrored messages = %d, want welcome plus the user message", len(messages))
	}
	if messages[1].Role != domain.MessageRoleUser || messages[1].Content != "Is it the nucleus?" {
		t.Fatalf("messages[1] = %+v, want the kept user message", messages[1])
	}
}

func TestSendMessageKeepsUserMessageOnDeliveryFailure(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	h.gw.postMessageErr = errors.New("remote down")
	_, err = h.svc.SendMessage(ctx, "u-1", created.ID, "Is it the nucleus?")
	var cerr *chatservice.ChatError
	if !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeTurn {
		t.Fatalf("error = %v, want TURN when delivery fails", err)
	}
	if h.gw.runs != 0 {
		t.Fatalf("runs = %d after failed delivery, want 0", h.gw.runs)
	}

	messages, _ := h.messageRepo.FindByThreadID(ctx, created.ID)
	if len(messages) != 2 {
		t.Fatalf("mirrored messages = %d, want the user message kept", len(messages))
	}
}

func TestSendMessageFailsWhenRunHasNoReply(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	// Completed run whose newest entries are all user messages.
	h.gw.turnResult = &ai.TurnResult{
		Status:   "completed",
		Messages: []ai.RemoteMessage{{ID: "m2", Role: "user", Text: "hello?"}},
	}

	_, err = h.svc.SendMessage(ctx, "u-1", created.ID, "hello?")
	var cerr *chatservice.ChatError
	if !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeTurn {
		t.Fatalf("error = %v, want TURN when no assistant reply exists", err)
	}
}

func TestSendMessageValidation(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	var cerr *chatservice.ChatError
	if _, err := h.svc.SendMessage(ctx, "u-1", created.ID, "   "); !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeValidation {
		t.Fatalf("blank message error = %v, want VALIDATION", err)
	}

	long := strings.Repeat("a", 4001)
	if _, err := h.svc.SendMessage(ctx, "u-1", created.ID, long); !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeValidation {
		t.Fatalf("oversize message error = %v, want VALIDATION", err)
	}
	if h.gw.runs != 0 {
		t.Fatalf("runs = %d after rejected input, want 0", h.gw.runs)
	}
}

func TestSendMessageEnforcesThreadCap(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	// Welcome already holds one slot; fill the rest of the cap.
	for i := 1; i < 100; i++ {
		if _, err := h.messageRepo.Create(ctx, &domain.ChatMessage{
			ID:       fmt.Sprintf("m-%d", i),
			ThreadID: created.ID,
			Role:     domain.MessageRoleUser,
			Content:  "filler",
		}); err != nil {
			t.Fatalf("seed message %d: %v", i, err)
		}
	}

	_, err = h.svc.SendMessage(ctx, "u-1", created.ID, "one more")
	var cerr *chatservice.ChatError
	if !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeValidation {
		t.Fatalf("error = %v, want VALIDATION at the message cap", err)
	}
	if !strings.Contains(cerr.Message, "limit") {
		t.Fatalf("message = %q, want the cap named", cerr.Message)
	}
}

func TestDeleteThreadKeepsLocalOnRemoteFailure(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	h.gw.deleteThreadErr = errors.New("remote down")
	err = h.svc.DeleteThread(ctx, "u-1", created.ID)
	var cerr *chatservice.ChatError
	if !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeRemote {
		t.Fatalf("error = %v, want REMOTE", err)
	}

	if _, err := h.threadRepo.FindByID(ctx, created.ID); err != nil {
		t.Fatalf("thread gone after failed remote delete: %v", err)
	}
}

func TestDeleteThreadRemovesMirror(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	if err := h.svc.DeleteThread(ctx, "u-1", created.ID); err != nil {
		t.Fatalf("DeleteThread() error = %v", err)
	}
	if h.gw.threadsDeleted != 1 || h.gw.deletedThreadIDs[0] != created.RemoteThreadID {
		t.Fatalf("remote deletes = %d (%v), want the hosted thread removed first",
			h.gw.threadsDeleted, h.gw.deletedThreadIDs)
	}

	if _, err := h.threadRepo.FindByID(ctx, created.ID); err == nil {
		t.Fatalf("thread row survived delete")
	}
	if messages, _ := h.messageRepo.FindByThreadID(ctx, created.ID); len(messages) != 0 {
		t.Fatalf("messages survived thread delete: %d", len(messages))
	}
}

func TestThreadOwnership(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	created, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil)
	if err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	var cerr *chatservice.ChatError
	if _, err := h.svc.GetThreadMessages(ctx, "u-2", created.ID); !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeUnauthorized {
		t.Fatalf("foreign read error = %v, want UNAUTHORIZED", err)
	}
	if err := h.svc.DeleteThread(ctx, "u-2", created.ID); !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeUnauthorized {
		t.Fatalf("foreign delete error = %v, want UNAUTHORIZED", err)
	}
	if _, err := h.svc.GetThreadMessages(ctx, "u-1", "missing"); !errors.As(err, &cerr) || cerr.Type != chatservice.ErrTypeNotFound {
		t.Fatalf("missing thread error = %v, want NOT_FOUND", err)
	}
}

func TestGetUserThreadsJoinsAssistantName(t *testing.T) {
	h := newChatHarness(t)
	ctx := context.Background()

	if _, err := h.svc.CreateThread(ctx, "u-1", "a-1", nil); err != nil {
		t.Fatalf("CreateThread() error = %v", err)
	}

	items, err := h.svc.GetUserThreads(ctx, "u-1")
	if err != nil {
		t.Fatalf("GetUserThreads() error = %v", err)
	}
	if len(items) != 1 || items[0].AssistantName != "Bio Helper" {
		t.Fatalf("items = %+v, want one thread with assistant name joined", items)
	}
}

func TestPickAssistantReply(t *testing.T) {
	reply, ok := pickAssistantReply([]ai.RemoteMessage{
		{Role: "user", Text: "latest question"},
		{Role: "assistant", Text: "older reply"},
	})
	if !ok || reply != "older reply" {
		t.Fatalf("pickAssistantReply() = %q, %v; want first assistant entry", reply, ok)
	}

	if _, ok := pickAssistantReply([]ai.RemoteMessage{{Role: "user", Text: "hi"}}); ok {
		t.Fatalf("pickAssistantReply() found a reply in a user-only list")
	}

	if _, ok := pickAssistantReply(nil); ok {
		t.Fatalf("pickAssistantReply() found a reply in an empty list")
	}
}
