// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tmsanders/go-preceptor/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create - appends the message and bumps the thread's last_message_at
// together, so the thread ordering column never lags its history.
func (r *gormMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}

		return tx.Model(&domain.ChatThread{}).
			Where("id = ? AND last_message_at < ?", message.ThreadID, message.CreatedAt).
			Update("last_message_at", message.CreatedAt).Error
	})

	if err != nil {
		log.Printf("[MessageRepository] Database error during message creation for thread ID %s: %v", message.ThreadID, err)
		return nil, errors.New("database error creating message")
	}

	log.Printf("[MessageRepository] Message created successfully with ID: %s for thread: %s", message.ID, message.ThreadID)
	return message, nil
}

// FindByThreadID - ascending creation order regardless of how rows were
// inserted; ID breaks ties for equal timestamps.
func (r *gormMessageRepository) FindByThreadID(ctx context.Context, threadID string) ([]domain.ChatMessage, error) {
	if threadID == "" {
		return nil, errors.New("invalid thread ID")
	}

	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error

	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for thread ID %s: %v", threadID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

func (r *gormMessageRepository) CountByThreadID(ctx context.Context, threadID string) (int64, error) {
	if threadID == "" {
		return 0, errors.New("invalid thread ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ChatMessage{}).Where("thread_id = ?", threadID).Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for thread ID %s: %v", threadID, err)
		return 0, errors.New("database error counting messages")
	}

	return count, nil
}

func (r *gormMessageRepository) DeleteByThreadID(ctx context.Context, threadID string) error {
	if threadID == "" {
		return errors.New("invalid thread ID")
	}

	result := r.db.WithContext(ctx).Where("thread_id = ?", threadID).Delete(&domain.ChatMessage{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting messages for thread ID %s: %v", threadID, result.Error)
		return errors.New("database error deleting messages")
	}

	log.Printf("[MessageRepository] Deleted %d messages for thread %s", result.RowsAffected, threadID)
	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormMessageRepository) validateMessageInput(message *domain.ChatMessage) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ID == "" {
		return errors.New("message ID is required")
	}
	if message.ThreadID == "" {
		return errors.New("thread ID is required")
	}
	if message.Role != domain.MessageRoleUser && message.Role != domain.MessageRoleAssistant {
		return fmt.Errorf("invalid message role: %s", message.Role)
	}
	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	return nil
}
