package document

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/tmsanders/go-preceptor/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func validDocument(id string) *domain.Document {
	return &domain.Document{
		ID:          id,
		UserID:      "u-1",
		AssistantID: "a-1",
		Filename:    "unit-review.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
		StoragePath: "documents/a-1/unit-review.pdf",
		PublicURL:   "http://localhost:9000/documents/a-1/unit-review.pdf",
		Status:      domain.DocumentStatusProcessing,
	}
}

func TestCreateAndFindByAssistantID(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, validDocument("d-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	docs, err := repo.FindByAssistantID(ctx, "a-1")
	if err != nil {
		t.Fatalf("FindByAssistantID() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	if docs[0].Status != domain.DocumentStatusProcessing {
		t.Fatalf("Status = %q, want processing", docs[0].Status)
	}
}

func TestCreateRejectsZeroSize(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)

	doc := validDocument("d-1")
	doc.SizeBytes = 0
	if _, err := repo.Create(context.Background(), doc); err == nil {
		t.Fatalf("Create() expected error for zero size")
	}
}

func TestSetStatusReady(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, validDocument("d-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.SetStatus(ctx, "d-1", domain.DocumentStatusReady, "file_remote_1"); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}

	doc, err := repo.FindByID(ctx, "d-1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if doc.Status != domain.DocumentStatusReady {
		t.Fatalf("Status = %q, want ready", doc.Status)
	}
	if doc.RemoteFileID != "file_remote_1" {
		t.Fatalf("RemoteFileID = %q, want file_remote_1", doc.RemoteFileID)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)

	if err := repo.SetStatus(context.Background(), "d-1", "done", ""); err == nil {
		t.Fatalf("SetStatus() expected error for unknown status")
	}
}

func TestDeleteRemovesOnlyRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	if _, err := repo.Create(ctx, validDocument("d-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, "d-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.FindByID(ctx, "d-1"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("FindByID() after delete error = %v, want ErrDocumentNotFound", err)
	}
}
