// File: internal/services/document_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tmsanders/go-preceptor/internal/domain"
	"github.com/tmsanders/go-preceptor/internal/repository/assistant"
	"github.com/tmsanders/go-preceptor/internal/repository/document"
	"github.com/tmsanders/go-preceptor/internal/services/ai"
	documentsvc "github.com/tmsanders/go-preceptor/internal/services/document"
	"github.com/tmsanders/go-preceptor/internal/services/dualwrite"
	"github.com/tmsanders/go-preceptor/internal/services/ingest"
	"github.com/tmsanders/go-preceptor/internal/services/storage"
)

// DocumentService owns curriculum uploads. An accepted file lands in
// three places: blob storage for the bytes, the local store for the
// metadata row, and the hosted service for document search. The upload
// workflow compensates every completed step on failure, so a rejected
// or broken upload leaves no trace in any of the three.
type DocumentService struct {
	documentRepo  document.DocumentRepository
	assistantRepo assistant.AssistantRepository
	validator     *ingest.Validator
	blobs         storage.BlobStore
	gateway       ai.Gateway
	logger        Logger
}

func NewDocumentService(
	documentRepo document.DocumentRepository,
	assistantRepo assistant.AssistantRepository,
	validator *ingest.Validator,
	blobs storage.BlobStore,
	gateway ai.Gateway,
	logger Logger,
) (*DocumentService, error) {
	if documentRepo == nil {
		return nil, documentsvc.NewValidationError("constructor", "document repository is required")
	}
	if assistantRepo == nil {
		return nil, documentsvc.NewValidationError("constructor", "assistant repository is required")
	}
	if validator == nil {
		return nil, documentsvc.NewValidationError("constructor", "ingest validator is required")
	}
	if blobs == nil {
		return nil, documentsvc.NewValidationError("constructor", "blob store is required")
	}
	if gateway == nil {
		return nil, documentsvc.NewValidationError("constructor", "AI gateway is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &DocumentService{
		documentRepo:  documentRepo,
		assistantRepo: assistantRepo,
		validator:     validator,
		blobs:         blobs,
		gateway:       gateway,
		logger:        logger,
	}, nil
}

// UploadDocument validates and ingests one file for an assistant the
// caller owns. Steps: store the bytes, insert the metadata row as
// processing, upload the hosted file for document search, then mark the
// row ready. Any failure unwinds the completed steps, so no processing
// row and no orphaned blob survive a broken upload.
func (s *DocumentService) UploadDocument(ctx context.Context, userID, assistantID, filename string, data []byte) (*domain.Document, error) {
	rec, err := s.authorizeAssistant(ctx, userID, assistantID)
	if err != nil {
		return nil, err
	}

	// Client-supplied names can carry directories; only the base name
	// participates in object keys.
	filename = filepath.Base(filename)
	info, err := s.validator.Validate(filename, data)
	if err != nil {
		var ie *ingest.IngestError
		if errors.As(err, &ie) {
			return nil, documentsvc.NewValidationError("upload_document", ie.Message)
		}
		return nil, documentsvc.NewValidationError("upload_document", err.Error())
	}

	key := storage.ObjectKey(rec.ID, filename)
	var (
		doc    *domain.Document
		fileID string
	)
	seq := dualwrite.NewSequence("upload_document", s.logger,
		dualwrite.Step{
			Name: "blob_put",
			Run: func(ctx context.Context) error {
				if err := s.blobs.Put(ctx, key, bytes.NewReader(data), info.Size, info.ContentType); err != nil {
					return documentsvc.NewRemoteError("upload_document", "could not store file", err)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.blobs.Delete(ctx, key)
			},
		},
		dualwrite.Step{
			Name: "local_insert",
			Run: func(ctx context.Context) error {
				rec := &domain.Document{
					ID:          uuid.NewString(),
					UserID:      userID,
					AssistantID: assistantID,
					Filename:    filename,
					ContentType: info.ContentType,
					SizeBytes:   info.Size,
					StoragePath: key,
					PublicURL:   s.blobs.PublicURL(key),
					Status:      domain.DocumentStatusProcessing,
					CreatedAt:   time.Now().UTC(),
				}
				saved, err := s.documentRepo.Create(ctx, rec)
				if err != nil {
					return documentsvc.NewStoreError("upload_document", "could not save document", err)
				}
				doc = saved
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.documentRepo.Delete(ctx, doc.ID)
			},
		},
		dualwrite.Step{
			Name: "hosted_file_upload",
			Run: func(ctx context.Context) error {
				id, err := s.gateway.UploadFile(ctx, filename, data)
				if err != nil {
					return documentsvc.NewRemoteError("upload_document", "could not upload file for document search", err)
				}
				fileID = id
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.gateway.DeleteFile(ctx, fileID)
			},
		},
		dualwrite.Step{
			Name: "mark_ready",
			Run: func(ctx context.Context) error {
				if err := s.documentRepo.SetStatus(ctx, doc.ID, domain.DocumentStatusReady, fileID); err != nil {
					return documentsvc.NewStoreError("upload_document", "could not finalize document", err)
				}
				return nil
			},
		},
	)
	if err := seq.Run(ctx); err != nil {
		return nil, err
	}

	doc.Status = domain.DocumentStatusReady
	doc.RemoteFileID = fileID
	s.logger.Info("document uploaded",
		"document_id", doc.ID,
		"assistant_id", assistantID,
		"filename", filename,
		"size_bytes", info.Size)
	return doc, nil
}

// GetAssistantDocuments lists an assistant's documents, newest first.
func (s *DocumentService) GetAssistantDocuments(ctx context.Context, userID, assistantID string) ([]domain.Document, error) {
	if _, err := s.authorizeAssistant(ctx, userID, assistantID); err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.FindByAssistantID(ctx, assistantID)
	if err != nil {
		return nil, documentsvc.NewStoreError("list_documents", "could not list documents", err)
	}
	return docs, nil
}

// DeleteDocument removes the metadata row only. The blob and the hosted
// file are retained: the assistant may have indexed the content, and
// the bytes stay addressable for audit until the assistant itself is
// deleted.
func (s *DocumentService) DeleteDocument(ctx context.Context, userID, documentID string) error {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return documentsvc.NewNotFoundError(documentID)
	}
	if doc.UserID != userID {
		return documentsvc.NewUnauthorizedError(userID, documentID)
	}

	if err := s.documentRepo.Delete(ctx, doc.ID); err != nil {
		return documentsvc.NewStoreError("delete_document", "could not delete document", err)
	}

	s.logger.Info("document deleted",
		"document_id", doc.ID,
		"assistant_id", doc.AssistantID,
		"blob_retained", doc.StoragePath)
	return nil
}

func (s *DocumentService) authorizeAssistant(ctx context.Context, userID, assistantID string) (*domain.Assistant, error) {
	rec, err := s.assistantRepo.FindByID(ctx, assistantID)
	if err != nil {
		return nil, documentsvc.NewAssistantUnauthorizedError(userID, assistantID)
	}
	if rec.UserID != userID {
		return nil, documentsvc.NewAssistantUnauthorizedError(userID, assistantID)
	}
	return rec, nil
}
