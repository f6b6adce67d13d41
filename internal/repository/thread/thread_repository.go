// File: internal/repository/thread/thread_repository.go
package thread

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/tmsanders/go-preceptor/internal/domain"
)

var ErrThreadNotFound = errors.New("thread not found")

type gormThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &gormThreadRepository{db: db}
}

// Create - validates input and stores a new thread mirror row.
func (r *gormThreadRepository) Create(ctx context.Context, thread *domain.ChatThread) (*domain.ChatThread, error) {
	if err := r.validateThreadInput(thread); err != nil {
		log.Printf("[ThreadRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(thread).Error
	if err != nil {
		log.Printf("[ThreadRepository] Database error during thread creation for assistant ID %s: %v", thread.AssistantID, err)
		return nil, errors.New("database error creating thread")
	}

	log.Printf("[ThreadRepository] Thread created successfully with ID: %s for assistant: %s", thread.ID, thread.AssistantID)
	return thread, nil
}

func (r *gormThreadRepository) FindByID(ctx context.Context, id string) (*domain.ChatThread, error) {
	if id == "" {
		return nil, errors.New("invalid thread ID")
	}

	var t domain.ChatThread
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	return r.handleFindError(err, &t, "FindByID")
}

// FindByUserID - joined with the assistant name so list displays don't
// need a second query per row.
func (r *gormThreadRepository) FindByUserID(ctx context.Context, userID string) ([]ThreadListItem, error) {
	if userID == "" {
		return nil, errors.New("invalid user ID")
	}

	var items []ThreadListItem
	err := r.db.WithContext(ctx).
		Table("chat_threads").
		Select("chat_threads.id, chat_threads.assistant_id, assistants.name AS assistant_name, chat_threads.name, chat_threads.last_message_at, chat_threads.created_at").
		Joins("JOIN assistants ON assistants.id = chat_threads.assistant_id").
		Where("chat_threads.user_id = ?", userID).
		Order("chat_threads.last_message_at DESC, chat_threads.id DESC").
		Scan(&items).Error

	if err != nil {
		log.Printf("[ThreadRepository] Database error finding threads for user ID %s: %v", userID, err)
		return nil, errors.New("database error fetching threads")
	}

	return items, nil
}

func (r *gormThreadRepository) CountByAssistantID(ctx context.Context, assistantID string) (int64, error) {
	if assistantID == "" {
		return 0, errors.New("invalid assistant ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ChatThread{}).Where("assistant_id = ?", assistantID).Count(&count).Error
	if err != nil {
		log.Printf("[ThreadRepository] Database error counting threads for assistant ID %s: %v", assistantID, err)
		return 0, errors.New("database error counting threads")
	}

	return count, nil
}

// Delete - messages first, then the thread row, so foreign keys never
// dangle mid-delete.
func (r *gormThreadRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid thread ID")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", id).Delete(&domain.ChatMessage{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&domain.ChatThread{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrThreadNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			return ErrThreadNotFound
		}
		log.Printf("[ThreadRepository] Database error deleting thread ID %s: %v", id, err)
		return errors.New("database error deleting thread")
	}

	log.Printf("[ThreadRepository] Thread deleted successfully: ID %s", id)
	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormThreadRepository) validateThreadInput(thread *domain.ChatThread) error {
	if thread == nil {
		return errors.New("thread cannot be nil")
	}
	if thread.ID == "" {
		return errors.New("thread ID is required")
	}
	if thread.AssistantID == "" {
		return errors.New("assistant ID is required")
	}
	if thread.UserID == "" {
		return errors.New("user ID is required")
	}
	if thread.RemoteThreadID == "" {
		return errors.New("remote thread ID is required")
	}
	return nil
}

// ===== ERROR HANDLING HELPERS =====

func (r *gormThreadRepository) handleFindError(err error, thread *domain.ChatThread, operation string) (*domain.ChatThread, error) {
	if err == nil {
		return thread, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrThreadNotFound
	}

	log.Printf("[ThreadRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
