package services

import (
	"context"

	"tesla-crm/internal/dto"
	"tesla-crm/internal/models"

	"github.com/google/uuid"
)

// ===========================================================================
// Chat Service Interface
// Conversations, messages and the automatic rule-based replies that feed
// the public website widget.
// ===========================================================================

// ChatService interface for chat business logic
type ChatService interface {
	// CreateConversation opens a conversation, optionally bound to a lead.
	// An unknown lead ID fails with a not-found error.
	CreateConversation(ctx context.Context, req dto.CreateConversationRequest) (*models.Conversation, error)

	// GetConversation finds a conversation by ID
	GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)

	// ListConversations lists conversations with filters and pagination
	ListConversations(ctx context.Context, query dto.ListConversationsQuery) ([]models.Conversation, int64, error)

	// UpdateConversation applies a partial update to a conversation
	UpdateConversation(ctx context.Context, id uuid.UUID, req dto.UpdateConversationRequest) (*models.Conversation, error)

	// GetMessages lists a conversation's messages oldest first
	GetMessages(ctx context.Context, conversationID uuid.UUID, page dto.Pagination) ([]models.Message, int64, error)

	// CreateMessage appends a message to an existing conversation without
	// triggering the rule engine
	CreateMessage(ctx context.Context, conversationID uuid.UUID, req dto.CreateMessageRequest) (*models.Message, error)

	// ProcessMessage stores an inbound visitor message, generates the
	// assistant reply, and captures a lead when the message carries a
	// phone number and the conversation has none yet.
	ProcessMessage(ctx context.Context, req dto.SendMessageRequest, actor Actor) (*dto.SendMessageResponse, error)

	// SuggestedResponses returns up to limit canned follow-up prompts
	SuggestedResponses(limit int) []string
}
