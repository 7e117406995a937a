package models

import (
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Message
// A single message in a conversation. Append-only: messages are created,
// marked read, and never edited. Chronological order (created_at asc) is
// the canonical reading order.
// ===========================================================================

// Well-known sender values. Sender stays free-form so integrations can
// record their own identities.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
	SenderSystem    = "system"
)

// MessageTypeText is the default message type.
const MessageTypeText = "text"

// Message represents one message in a conversation.
type Message struct {
	BaseModel

	// Content message body, required
	Content string `gorm:"type:text;not null" json:"content"`

	// Sender who wrote it: "user", "assistant", "system", ...
	Sender string `gorm:"size:50;not null;index" json:"sender"`

	// MessageType content kind, defaults to "text"
	MessageType string `gorm:"size:50;not null;default:'text'" json:"message_type"`

	// IsRead whether the recipient has seen the message
	IsRead bool `gorm:"default:false;index" json:"is_read"`

	// ConversationID owning conversation
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`

	Metadata LeadMetadata `gorm:"type:jsonb;default:'{}'" json:"metadata"`

	// Relations
	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// IsFromAssistant reports whether the rule engine produced this message.
func (m *Message) IsFromAssistant() bool {
	return m.Sender == SenderAssistant
}

// MarkAsRead flags the message as read.
func (m *Message) MarkAsRead() {
	m.IsRead = true
	m.UpdatedAt = time.Now()
}
