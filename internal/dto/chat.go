package dto

import (
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Chat DTOs
// ===========================================================================

// SendMessageRequest visitor message from the website widget. When
// ConversationID is empty a new conversation is opened.
type SendMessageRequest struct {
	Content        string     `json:"content" binding:"required,min=1,max=4000"`
	ConversationID *uuid.UUID `json:"conversation_id"`
	LeadID         *uuid.UUID `json:"lead_id"`
	VisitorName    string     `json:"visitor_name" binding:"omitempty,max=200"`
	VisitorEmail   string     `json:"visitor_email" binding:"omitempty,email"`

	// UseAI controls whether an assistant reply is generated. Nil means true.
	UseAI *bool `json:"use_ai"`
}

// WantsReply reports whether the request asks for an assistant reply
func (r SendMessageRequest) WantsReply() bool {
	return r.UseAI == nil || *r.UseAI
}

// SendMessageResponse the stored visitor message plus the generated reply.
// Reply is nil when the request disabled the assistant.
type SendMessageResponse struct {
	ConversationID uuid.UUID        `json:"conversation_id"`
	Message        MessageResponse  `json:"message"`
	Reply          *MessageResponse `json:"reply,omitempty"`
	Suggestions    []string         `json:"suggestions"`
}

// CreateConversationRequest opens a conversation, optionally bound to a lead
type CreateConversationRequest struct {
	Title  *string    `json:"title" binding:"omitempty,max=300"`
	LeadID *uuid.UUID `json:"lead_id"`
}

// UpdateConversationRequest partial conversation update
type UpdateConversationRequest struct {
	Title  *string `json:"title" binding:"omitempty,max=300"`
	Status *string `json:"status" binding:"omitempty,max=50"`
}

// CreateMessageRequest appends a message to an existing conversation.
// Sender defaults to "user" when empty.
type CreateMessageRequest struct {
	Content     string `json:"content" binding:"required,min=1,max=4000"`
	Sender      string `json:"sender" binding:"omitempty,oneof=user assistant system"`
	MessageType string `json:"message_type" binding:"omitempty,max=50"`
}

// ListConversationsQuery filters for the conversation list
type ListConversationsQuery struct {
	Pagination
	Status string `form:"status" binding:"omitempty,max=50"`
	LeadID string `form:"lead_id" binding:"omitempty,uuid"`
}

// ConversationResponse conversation payload
type ConversationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     *string    `json:"title,omitempty"`
	Status    string     `json:"status"`
	LeadID    *uuid.UUID `json:"lead_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MessageResponse message payload
type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Content        string    `json:"content"`
	Sender         string    `json:"sender"`
	MessageType    string    `json:"message_type"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// SuggestedResponsesResponse canned prompts shown in the widget
type SuggestedResponsesResponse struct {
	Suggestions []string `json:"suggestions"`
}
