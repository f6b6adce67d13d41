// File: internal/services/testsupport_test.go
package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/tmsanders/go-preceptor/internal/domain"
	"github.com/tmsanders/go-preceptor/internal/services/ai"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Assistant{}, &domain.Document{}, &domain.ChatThread{}, &domain.ChatMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type postedMessage struct {
	ThreadID string
	Role     string
	Text     string
}

// fakeGateway is an in-memory ai.Gateway. Zero value succeeds on every
// call; set the per-operation err fields to inject failures. Counters
// record what the orchestrators actually did on the remote side.
type fakeGateway struct {
	mu sync.Mutex

	createAssistantErr error
	getAssistantErr    error
	updateAssistantErr error
	deleteAssistantErr error
	instructions       string

	createThreadErr error
	deleteThreadErr error
	postMessageErr  error
	listMessagesErr error

	uploadFileErr error
	deleteFileErr error

	runTurnErr error
	turnResult *ai.TurnResult

	assistantsCreated   int
	assistantsDeleted   int
	deletedAssistantIDs []string
	updatedFields       []ai.AssistantFields
	threadsCreated      int
	threadsDeleted      int
	deletedThreadIDs    []string
	posted              []postedMessage
	filesUploaded       int
	filesDeleted        int
	deletedFileIDs      []string
	runs                int
}

func (f *fakeGateway) CreateAssistant(ctx context.Context, name, description, instructions string) (*ai.RemoteAssistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAssistantErr != nil {
		return nil, f.createAssistantErr
	}
	f.assistantsCreated++
	return &ai.RemoteAssistant{
		ID:           fmt.Sprintf("asst_fake_%d", f.assistantsCreated),
		Name:         name,
		Description:  description,
		Instructions: instructions,
	}, nil
}

func (f *fakeGateway) GetAssistant(ctx context.Context, id string) (*ai.RemoteAssistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getAssistantErr != nil {
		return nil, f.getAssistantErr
	}
	return &ai.RemoteAssistant{ID: id, Instructions: f.instructions}, nil
}

func (f *fakeGateway) UpdateAssistant(ctx context.Context, id string, fields ai.AssistantFields) (*ai.RemoteAssistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateAssistantErr != nil {
		return nil, f.updateAssistantErr
	}
	f.updatedFields = append(f.updatedFields, fields)
	return &ai.RemoteAssistant{ID: id}, nil
}

func (f *fakeGateway) DeleteAssistant(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteAssistantErr != nil {
		return f.deleteAssistantErr
	}
	f.assistantsDeleted++
	f.deletedAssistantIDs = append(f.deletedAssistantIDs, id)
	return nil
}

func (f *fakeGateway) CreateThread(ctx context.Context) (*ai.RemoteThread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createThreadErr != nil {
		return nil, f.createThreadErr
	}
	f.threadsCreated++
	return &ai.RemoteThread{ID: fmt.Sprintf("thread_fake_%d", f.threadsCreated)}, nil
}

func (f *fakeGateway) DeleteThread(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteThreadErr != nil {
		return f.deleteThreadErr
	}
	f.threadsDeleted++
	f.deletedThreadIDs = append(f.deletedThreadIDs, id)
	return nil
}

func (f *fakeGateway) PostMessage(ctx context.Context, threadID, role, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postMessageErr != nil {
		return f.postMessageErr
	}
	f.posted = append(f.posted, postedMessage{ThreadID: threadID, Role: role, Text: text})
	return nil
}

func (f *fakeGateway) ListMessages(ctx context.Context, threadID string) ([]ai.RemoteMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listMessagesErr != nil {
		return nil, f.listMessagesErr
	}
	if f.turnResult != nil {
		return f.turnResult.Messages, nil
	}
	return nil, nil
}

func (f *fakeGateway) UploadFile(ctx context.Context, filename string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadFileErr != nil {
		return "", f.uploadFileErr
	}
	f.filesUploaded++
	return fmt.Sprintf("file_fake_%d", f.filesUploaded), nil
}

func (f *fakeGateway) DeleteFile(ctx context.Context, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteFileErr != nil {
		return f.deleteFileErr
	}
	f.filesDeleted++
	f.deletedFileIDs = append(f.deletedFileIDs, fileID)
	return nil
}

func (f *fakeGateway) RunTurn(ctx context.Context, threadID, assistantID string) (*ai.TurnResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	if f.runTurnErr != nil {
		return nil, f.runTurnErr
	}
	if f.turnResult != nil {
		return f.turnResult, nil
	}
	return &ai.TurnResult{Status: "completed"}, nil
}

// fakeBlobStore keeps objects in a map. Zero value succeeds; set the
// err fields to inject failures.
type fakeBlobStore struct {
	mu sync.Mutex

	putErr    error
	deleteErr error

	objects map[string][]byte
	deleted []string
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "http://blob.test/documents/" + key
}
