package handlers

import (
	"net/http"
	"strconv"

	"tesla-crm/internal/dto"
	"tesla-crm/internal/middleware"
	"tesla-crm/internal/models"
	"tesla-crm/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Chat Handler
// Public widget endpoint (send-message, suggested-responses) plus the
// authenticated conversation endpoints for the dashboard.
// ===========================================================================

// ChatHandler handles chat endpoints
type ChatHandler struct {
	chatService services.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService services.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// RegisterRoutes mounts the chat endpoints. The widget endpoints stay
// public; conversation management needs a token.
func (h *ChatHandler) RegisterRoutes(api *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	chat := api.Group("/chat")
	{
		chat.POST("/send-message", h.SendMessage)
		chat.GET("/suggested-responses", h.SuggestedResponses)
	}

	conversations := api.Group("/conversations")
	conversations.Use(authMiddleware)
	{
		conversations.POST("", h.CreateConversation)
		conversations.GET("", h.ListConversations)
		conversations.GET("/:id", h.GetConversation)
		conversations.PUT("/:id", h.UpdateConversation)
		conversations.GET("/:id/messages", h.GetMessages)
		conversations.POST("/:id/messages", h.CreateMessage)
	}
}

// SendMessage stores a visitor message and answers with the generated
// reply. Public: the website widget calls this without a token.
// POST /api/v1/chat/send-message
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.chatService.ProcessMessage(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	middleware.RecordChatMessage(models.SenderUser)
	if result.Reply != nil {
		middleware.RecordChatMessage(models.SenderAssistant)
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(result))
}

// SuggestedResponses returns canned prompts for the widget. Public.
// GET /api/v1/chat/suggested-responses
func (h *ChatHandler) SuggestedResponses(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse("INVALID_REQUEST", "invalid limit"))
			return
		}
		limit = parsed
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(dto.SuggestedResponsesResponse{
		Suggestions: h.chatService.SuggestedResponses(limit),
	}))
}

// CreateConversation opens a conversation, optionally bound to a lead
// POST /api/v1/conversations
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	conversation, err := h.chatService.CreateConversation(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse(toConversationResponse(conversation)))
}

// ListConversations returns conversations newest first
// GET /api/v1/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	var query dto.ListConversationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	conversations, total, err := h.chatService.ListConversations(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.ConversationResponse, len(conversations))
	for i := range conversations {
		responses[i] = toConversationResponse(&conversations[i])
	}

	c.JSON(http.StatusOK, dto.SuccessWithMeta(responses, total, query.PageNumber(), query.PageSize()))
}

// GetConversation returns one conversation
// GET /api/v1/conversations/:id
func (h *ChatHandler) GetConversation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	conversation, err := h.chatService.GetConversation(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toConversationResponse(conversation)))
}

// UpdateConversation applies a partial update to a conversation
// PUT /api/v1/conversations/:id
func (h *ChatHandler) UpdateConversation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	conversation, err := h.chatService.UpdateConversation(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toConversationResponse(conversation)))
}

// GetMessages returns a conversation's messages oldest first
// GET /api/v1/conversations/:id/messages
func (h *ChatHandler) GetMessages(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var page dto.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		respondBindError(c, err)
		return
	}

	messages, total, err := h.chatService.GetMessages(c.Request.Context(), id, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		responses[i] = toMessageResponse(&messages[i])
	}

	c.JSON(http.StatusOK, dto.SuccessWithMeta(responses, total, page.PageNumber(), page.PageSize()))
}

// CreateMessage appends a message to a conversation without triggering
// the rule engine. Used by agents writing into a thread.
// POST /api/v1/conversations/:id/messages
func (h *ChatHandler) CreateMessage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	message, err := h.chatService.CreateMessage(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	middleware.RecordChatMessage(message.Sender)

	c.JSON(http.StatusCreated, dto.SuccessResponse(toMessageResponse(message)))
}
