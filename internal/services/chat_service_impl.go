package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tesla-crm/internal/bot"
	"tesla-crm/internal/dto"
	apperrors "tesla-crm/internal/errors"
	"tesla-crm/internal/models"
	"tesla-crm/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================================================================
// Chat Service Implementation
// ===========================================================================

// suggestedResponses canned follow-up prompts shown in the widget
var suggestedResponses = []string{
	"¿Podría proporcionar más detalles?",
	"Entendido, ¿en qué más puedo ayudarte?",
	"¿Te gustaría que te llame para discutir esto?",
	"¿Tienes alguna otra pregunta?",
	"¿Necesitas ayuda con algo más?",
}

// defaultSuggestionLimit suggestions returned when no limit given
const defaultSuggestionLimit = 5

// chatServiceImpl implements ChatService
type chatServiceImpl struct {
	conversationRepo repositories.ConversationRepository
	messageRepo      repositories.MessageRepository
	kbRepo           repositories.KBRepository
	responder        bot.Responder
	leadService      LeadService
	activity         ActivityService
	logger           *zap.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	conversationRepo repositories.ConversationRepository,
	messageRepo repositories.MessageRepository,
	kbRepo repositories.KBRepository,
	responder bot.Responder,
	leadService LeadService,
	activity ActivityService,
	logger *zap.Logger,
) ChatService {
	return &chatServiceImpl{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		kbRepo:           kbRepo,
		responder:        responder,
		leadService:      leadService,
		activity:         activity,
		logger:           logger,
	}
}

// CreateConversation opens a conversation, optionally bound to a lead
func (s *chatServiceImpl) CreateConversation(ctx context.Context, req dto.CreateConversationRequest) (*models.Conversation, error) {
	conversation := &models.Conversation{
		Title:  req.Title,
		Status: models.ConversationStatusActive,
	}

	if req.LeadID != nil {
		if _, err := s.leadService.GetByID(ctx, *req.LeadID); err != nil {
			return nil, err
		}
		conversation.LeadID = req.LeadID
	}

	if err := s.conversationRepo.Create(ctx, conversation); err != nil {
		s.logger.Error("create conversation failed", zap.Error(err))
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	return conversation, nil
}

// GetConversation finds a conversation by ID
func (s *chatServiceImpl) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	conversation, err := s.conversationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "conversation not found")
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return conversation, nil
}

// ListConversations lists conversations with filters and pagination
func (s *chatServiceImpl) ListConversations(ctx context.Context, query dto.ListConversationsQuery) ([]models.Conversation, int64, error) {
	filter := repositories.ConversationFilter{
		Status: query.Status,
	}
	if query.LeadID != "" {
		id, err := uuid.Parse(query.LeadID)
		if err != nil {
			return nil, 0, apperrors.New(apperrors.ErrInvalidInput, "invalid lead_id")
		}
		filter.LeadID = &id
	}

	return s.conversationRepo.Find(ctx, filter, repositories.FindOptions{
		Offset: query.Offset(),
		Limit:  query.PageSize(),
	})
}

// UpdateConversation applies a partial update to a conversation
func (s *chatServiceImpl) UpdateConversation(ctx context.Context, id uuid.UUID, req dto.UpdateConversationRequest) (*models.Conversation, error) {
	conversation, err := s.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		conversation.Title = req.Title
	}
	if req.Status != nil {
		conversation.Status = *req.Status
	}

	if err := s.conversationRepo.Update(ctx, conversation); err != nil {
		s.logger.Error("update conversation failed", zap.Error(err))
		return nil, fmt.Errorf("update conversation: %w", err)
	}
	return conversation, nil
}

// GetMessages lists a conversation's messages oldest first
func (s *chatServiceImpl) GetMessages(ctx context.Context, conversationID uuid.UUID, page dto.Pagination) ([]models.Message, int64, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, 0, err
	}

	return s.messageRepo.FindByConversation(ctx, conversationID, repositories.FindOptions{
		Offset: page.Offset(),
		Limit:  page.PageSize(),
	})
}

// CreateMessage appends a message to an existing conversation without
// triggering the rule engine. Used by agents writing into a thread.
func (s *chatServiceImpl) CreateMessage(ctx context.Context, conversationID uuid.UUID, req dto.CreateMessageRequest) (*models.Message, error) {
	conversation, err := s.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	sender := req.Sender
	if sender == "" {
		sender = models.SenderUser
	}
	messageType := req.MessageType
	if messageType == "" {
		messageType = models.MessageTypeText
	}

	message := &models.Message{
		Content:        strings.TrimSpace(req.Content),
		Sender:         sender,
		MessageType:    messageType,
		ConversationID: conversation.ID,
	}
	if message.Content == "" {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "empty message")
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		s.logger.Error("create message failed", zap.Error(err))
		return nil, fmt.Errorf("create message: %w", err)
	}

	// bump conversation recency
	if err := s.conversationRepo.Update(ctx, conversation); err != nil {
		s.logger.Warn("touch conversation failed", zap.Error(err))
	}

	return message, nil
}

// ProcessMessage stores a visitor message and generates the reply
func (s *chatServiceImpl) ProcessMessage(ctx context.Context, req dto.SendMessageRequest, actor Actor) (*dto.SendMessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "empty message")
	}

	conversation, err := s.resolveConversation(ctx, req)
	if err != nil {
		return nil, err
	}

	userMessage := &models.Message{
		Content:        content,
		Sender:         models.SenderUser,
		MessageType:    models.MessageTypeText,
		ConversationID: conversation.ID,
	}
	if err := s.messageRepo.Create(ctx, userMessage); err != nil {
		s.logger.Error("store visitor message failed", zap.Error(err))
		return nil, fmt.Errorf("create message: %w", err)
	}

	response := &dto.SendMessageResponse{
		ConversationID: conversation.ID,
		Message:        toMessageResponse(userMessage),
		Suggestions:    s.SuggestedResponses(defaultSuggestionLimit),
	}

	record := ActivityRecord{
		Action:     "conversation.message",
		EntityType: models.EntityConversation,
		EntityID:   &conversation.ID,
	}

	if req.WantsReply() {
		articles, err := s.kbRepo.FindAll(ctx)
		if err != nil {
			// reply still works without knowledge base snippets
			s.logger.Warn("load knowledge base failed", zap.Error(err))
			articles = nil
		}

		result := s.responder.Reply(ctx, content, articles)

		reply := &models.Message{
			Content:        result.Text,
			Sender:         models.SenderAssistant,
			MessageType:    models.MessageTypeText,
			ConversationID: conversation.ID,
		}
		if err := s.messageRepo.Create(ctx, reply); err != nil {
			s.logger.Error("store assistant reply failed", zap.Error(err))
			return nil, fmt.Errorf("create reply: %w", err)
		}

		s.captureLead(ctx, conversation, req, result, actor)

		replyResponse := toMessageResponse(reply)
		response.Reply = &replyResponse
		record.Details = map[string]interface{}{
			"category": string(result.Classification.Category),
			"risk":     string(result.Risk),
		}
	}

	// bump conversation recency
	if err := s.conversationRepo.Update(ctx, conversation); err != nil {
		s.logger.Warn("touch conversation failed", zap.Error(err))
	}

	s.activity.Record(ctx, actor, record)

	return response, nil
}

// resolveConversation finds the requested conversation or opens a new one
func (s *chatServiceImpl) resolveConversation(ctx context.Context, req dto.SendMessageRequest) (*models.Conversation, error) {
	if req.ConversationID != nil {
		return s.GetConversation(ctx, *req.ConversationID)
	}
	return s.CreateConversation(ctx, dto.CreateConversationRequest{LeadID: req.LeadID})
}

// captureLead creates a lead from the chat when the visitor left a phone
// number and the conversation is not bound to a lead yet. Best effort.
func (s *chatServiceImpl) captureLead(ctx context.Context, conversation *models.Conversation, req dto.SendMessageRequest, result bot.ReplyResult, actor Actor) {
	if conversation.HasLead() || result.Phone == "" {
		return
	}

	name := strings.TrimSpace(req.VisitorName)
	if name == "" {
		name = "Visitante web"
	}

	createReq := dto.CreateLeadRequest{
		FirstName: name,
		Phone:     &result.Phone,
		Source:    string(models.SourceChat),
	}
	if req.VisitorEmail != "" {
		email := req.VisitorEmail
		createReq.Email = &email
	}

	lead, _, err := s.leadService.Create(ctx, createReq, actor)
	if err != nil {
		s.logger.Warn("lead capture from chat failed", zap.Error(err))
		return
	}

	conversation.LeadID = &lead.ID
	if err := s.conversationRepo.Update(ctx, conversation); err != nil {
		s.logger.Warn("bind captured lead failed",
			zap.Error(err),
			zap.String("conversation_id", conversation.ID.String()),
		)
	}
}

// SuggestedResponses returns up to limit canned follow-up prompts
func (s *chatServiceImpl) SuggestedResponses(limit int) []string {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	if limit > len(suggestedResponses) {
		limit = len(suggestedResponses)
	}
	return suggestedResponses[:limit]
}

// toMessageResponse maps a message model to its response DTO
func toMessageResponse(message *models.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Content:        message.Content,
		Sender:         message.Sender,
		MessageType:    message.MessageType,
		IsRead:         message.IsRead,
		CreatedAt:      message.CreatedAt,
	}
}
