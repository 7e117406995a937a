package models

import (
	"github.com/google/uuid"
)

// ===========================================================================
// Conversation
// A thread of messages between a visitor and the system, optionally tied
// to a Lead. Deleting a conversation cascades to its messages.
// ===========================================================================

// ConversationStatusActive is the default status for a new conversation.
// Status is intentionally a free-form string ("active", "closed",
// "pending"...) rather than a closed enum.
const ConversationStatusActive = "active"

// Conversation represents a chat thread.
type Conversation struct {
	BaseModel

	// Title optional short label shown in the inbox
	Title *string `gorm:"size:200;index" json:"title,omitempty"`

	// Status free-form state, defaults to "active"
	Status string `gorm:"size:50;not null;default:'active';index" json:"status"`

	// LeadID owning lead (nullable; widget chats start anonymous)
	LeadID *uuid.UUID `gorm:"type:uuid;index" json:"lead_id,omitempty"`

	Metadata LeadMetadata `gorm:"type:jsonb;default:'{}'" json:"metadata"`

	// Relations
	Lead     *Lead     `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// HasLead reports whether the conversation is attached to a lead.
func (c *Conversation) HasLead() bool {
	return c.LeadID != nil
}
