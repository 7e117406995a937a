package repositories

import (
	"context"
	"time"

	"tesla-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// Message Repository Implementation
// Database operations for the Message model
// (interface defined in interfaces.go)
// ===========================================================================

// messageRepo implementation
type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

// FindByID finds a message by ID
func (r *messageRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).
		First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// FindByConversation lists a conversation's messages oldest first
func (r *messageRepo) FindByConversation(ctx context.Context, conversationID uuid.UUID, opts FindOptions) ([]models.Message, int64, error) {
	opts.SetDefaults()

	var messages []models.Message
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ?", conversationID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at ASC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// Create creates a new message
func (r *messageRepo) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// Update updates a message
func (r *messageRepo) Update(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Save(message).Error
}

// Count counts all messages
func (r *messageRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Count(&count).Error
	return count, err
}

// CountCreatedBetween counts messages created in [start, end)
func (r *messageRepo) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}
