// File: internal/repository/assistant/assistant_repository.go
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/tmsanders/go-preceptor/internal/domain"
)

var ErrAssistantNotFound = errors.New("assistant not found")

type gormAssistantRepository struct {
	db *gorm.DB
}

func NewAssistantRepository(db *gorm.DB) AssistantRepository {
	return &gormAssistantRepository{db: db}
}

// Create - validates input and stores a new assistant mirror row.
func (r *gormAssistantRepository) Create(ctx context.Context, assistant *domain.Assistant) (*domain.Assistant, error) {
	if err := r.validateAssistantInput(assistant); err != nil {
		log.Printf("[AssistantRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(assistant).Error
	if err != nil {
		log.Printf("[AssistantRepository] Database error during assistant creation for user ID %s: %v", assistant.UserID, err)
		return nil, errors.New("database error creating assistant")
	}

	log.Printf("[AssistantRepository] Assistant created successfully with ID: %s for user: %s", assistant.ID, assistant.UserID)
	return assistant, nil
}

func (r *gormAssistantRepository) FindByID(ctx context.Context, id string) (*domain.Assistant, error) {
	if id == "" {
		return nil, errors.New("invalid assistant ID")
	}

	var a domain.Assistant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	return r.handleFindError(err, &a, "FindByID")
}

func (r *gormAssistantRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Assistant, error) {
	if userID == "" {
		return nil, errors.New("invalid user ID")
	}

	var assistants []domain.Assistant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&assistants).Error

	if err != nil {
		log.Printf("[AssistantRepository] Database error finding assistants for user ID %s: %v", userID, err)
		return nil, errors.New("database error fetching assistants")
	}

	return assistants, nil
}

// Update - mirrors name/description only; instructions live on the remote side.
func (r *gormAssistantRepository) Update(ctx context.Context, id, name, description string) error {
	if id == "" {
		return errors.New("invalid assistant ID")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("assistant name cannot be empty")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Assistant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        name,
			"description": description,
			"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
		})

	if result.Error != nil {
		log.Printf("[AssistantRepository] Database error updating assistant ID %s: %v", id, result.Error)
		return errors.New("database error updating assistant")
	}

	if result.RowsAffected == 0 {
		return ErrAssistantNotFound
	}

	return nil
}

// TouchLastUsed - bumps last_used_at when a conversation turn completes.
func (r *gormAssistantRepository) TouchLastUsed(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid assistant ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Assistant{}).
		Where("id = ?", id).
		Update("last_used_at", gorm.Expr("CURRENT_TIMESTAMP"))

	if result.Error != nil {
		log.Printf("[AssistantRepository] Database error updating last used for assistant ID %s: %v", id, result.Error)
		return errors.New("database error updating assistant timestamp")
	}

	if result.RowsAffected == 0 {
		return ErrAssistantNotFound
	}

	return nil
}

func (r *gormAssistantRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, errors.New("invalid user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Assistant{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		log.Printf("[AssistantRepository] Database error counting assistants for user ID %s: %v", userID, err)
		return 0, errors.New("database error counting assistants")
	}

	return count, nil
}

// Delete - transactional cascade so no child row survives its assistant.
// Order matters for foreign keys: messages, threads, documents, then the row.
func (r *gormAssistantRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid assistant ID")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var threadIDs []string
		if err := tx.Model(&domain.ChatThread{}).
			Where("assistant_id = ?", id).
			Pluck("id", &threadIDs).Error; err != nil {
			return err
		}

		if len(threadIDs) > 0 {
			if err := tx.Where("thread_id IN ?", threadIDs).
				Delete(&domain.ChatMessage{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("assistant_id = ?", id).
			Delete(&domain.ChatThread{}).Error; err != nil {
			return err
		}

		if err := tx.Where("assistant_id = ?", id).
			Delete(&domain.Document{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&domain.Assistant{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAssistantNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrAssistantNotFound) {
			return ErrAssistantNotFound
		}
		log.Printf("[AssistantRepository] Database error deleting assistant ID %s: %v", id, err)
		return errors.New("database error deleting assistant")
	}

	log.Printf("[AssistantRepository] Assistant deleted successfully: ID %s", id)
	return nil
}

// ===== VALIDATION HELPERS =====

func (r *gormAssistantRepository) validateAssistantInput(assistant *domain.Assistant) error {
	if assistant == nil {
		return errors.New("assistant cannot be nil")
	}
	if assistant.ID == "" {
		return errors.New("assistant ID is required")
	}
	if assistant.UserID == "" {
		return errors.New("user ID is required")
	}
	if strings.TrimSpace(assistant.Name) == "" {
		return errors.New("assistant name is required")
	}
	if assistant.RemoteID == "" {
		return errors.New("remote assistant ID is required")
	}
	return nil
}

// ===== ERROR HANDLING HELPERS =====

func (r *gormAssistantRepository) handleFindError(err error, assistant *domain.Assistant, operation string) (*domain.Assistant, error) {
	if err == nil {
		return assistant, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssistantNotFound
	}

	log.Printf("[AssistantRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
