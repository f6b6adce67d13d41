// File: internal/repository/document/document_repository.go
package document

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/tmsanders/go-preceptor/internal/domain"
)

var ErrDocumentNotFound = errors.New("document not found")

type gormDocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &gormDocumentRepository{db: db}
}

// Create - validates input and stores a new document row.
func (r *gormDocumentRepository) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if err := r.validateDocumentInput(doc); err != nil {
		log.Printf("[DocumentRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(doc).Error
	if err != nil {
		log.Printf("[DocumentRepository] Database error during document creation for assistant ID %s: %v", doc.AssistantID, err)
		return nil, errors.New("database error creating document")
	}

	log.Printf("[DocumentRepository] Document created successfully with ID: %s for assistant: %s", doc.ID, doc.AssistantID)
	return doc, nil
}

func (r *gormDocumentRepository) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	if id == "" {
		return nil, errors.New("invalid document ID")
	}

	var doc domain.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	return r.handleFindError(err, &doc, "FindByID")
}

func (r *gormDocumentRepository) FindByAssistantID(ctx context.Context, assistantID string) ([]domain.Document, error) {
	if assistantID == "" {
		return nil, errors.New("invalid assistant ID")
	}

	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Where("assistant_id = ?", assistantID).
		Order("created_at DESC, id DESC").
		Find(&docs).Error

	if err != nil {
		log.Printf("[DocumentRepository] Database error finding documents for assistant ID %s: %v", assistantID, err)
		return nil, errors.New("database error fetching documents")
	}

	return docs, nil
}

// SetStatus - transitions processing -> ready/error once the hosted file
// upload settles; remoteFileID may be empty for the error transition.
func (r *gormDocumentRepository) SetStatus(ctx context.Context, id, status, remoteFileID string) error {
	if id == "" {
		return errors.New("invalid document ID")
	}
	if status != domain.DocumentStatusProcessing &&
		status != domain.DocumentStatusReady &&
		status != domain.DocumentStatusError {
		return fmt.Errorf("invalid document status: %s", status)
	}

	updates := map[string]interface{}{"status": status}
	if remoteFileID != "" {
		updates["remote_file_id"] = remoteFileID
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		log.Printf("[DocumentRepository] Database error setting status %s for document ID %s: %v", status, id, result.Error)
		return errors.New("database error updating document status")
	}

	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

func (r *gormDocumentRepository) CountByAssistantID(ctx context.Context, assistantID string) (int64, error) {
	if assistantID == "" {
		return 0, errors.New("invalid assistant ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Document{}).Where("assistant_id = ?", assistantID).Count(&count).Error
	if err != nil {
		log.Printf("[DocumentRepository] Database error counting documents for assistant ID %s: %v", assistantID, err)
		return 0, errors.New("database error counting documents")
	}

	return count, nil
}

// Delete - removes only the row; the storage blob stays behind.
func (r *gormDocumentRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid document ID")
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Document{})
	if result.Error != nil {
		log.Printf("[DocumentRepository] Database error deleting document ID %s: %v", id, result.Error)
		return errors.New("database error deleting document")
	}

	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}

	log.Printf("[DocumentRepository] Document deleted successfully: ID %s", id)
	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormDocumentRepository) validateDocumentInput(doc *domain.Document) error {
	if doc == nil {
		return errors.New("document cannot be nil")
	}
	if doc.ID == "" {
		return errors.New("document ID is required")
	}
	if doc.UserID == "" {
		return errors.New("user ID is required")
	}
	if doc.AssistantID == "" {
		return errors.New("assistant ID is required")
	}
	if strings.TrimSpace(doc.Filename) == "" {
		return errors.New("filename is required")
	}
	if doc.SizeBytes <= 0 {
		return errors.New("file size must be positive")
	}
	if doc.StoragePath == "" {
		return errors.New("storage path is required")
	}
	return nil
}

// ===== ERROR HANDLING HELPERS =====

func (r *gormDocumentRepository) handleFindError(err error, doc *domain.Document, operation string) (*domain.Document, error) {
	if err == nil {
		return doc, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}

	log.Printf("[DocumentRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
