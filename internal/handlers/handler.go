package handlers

import (
	"errors"
	"net/http"

	"tesla-crm/internal/dto"
	apperrors "tesla-crm/internal/errors"
	"tesla-crm/internal/middleware"
	"tesla-crm/internal/models"
	"tesla-crm/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Shared handler helpers
// Bind/validate, translate service errors, capture the acting identity.
// ===========================================================================

// respondError translates a service error into the response envelope.
// Unexpected errors are logged with the request ID and masked as 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperrors.StatusCode(err)
	code := apperrors.ErrorCode(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "An internal error occurred"
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		message = appErr.Message
	}

	c.JSON(status, dto.ErrorResponse(code, message))
}

// respondBindError answers 400 for malformed request payloads
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse("INVALID_REQUEST", err.Error()))
}

// actorFrom captures who is calling and from where. Works for both
// authenticated routes and the anonymous chat widget.
func actorFrom(c *gin.Context) services.Actor {
	actor := services.Actor{}

	if userID, ok := middleware.GetUserID(c); ok {
		actor.UserID = &userID
	}
	if ip := c.ClientIP(); ip != "" {
		actor.IPAddress = &ip
	}
	if ua := c.Request.UserAgent(); ua != "" {
		actor.UserAgent = &ua
	}

	return actor
}

// ===========================================================================
// Model to response converters
// ===========================================================================

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		FullName:    user.FullName(),
		Phone:       user.Phone,
		AvatarURL:   user.AvatarURL,
		Role:        string(user.Role),
		Status:      string(user.Status),
		IsSuperuser: user.IsSuperuser,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func toLeadResponse(lead *models.Lead) dto.LeadResponse {
	return dto.LeadResponse{
		ID:          lead.ID,
		FirstName:   lead.FirstName,
		LastName:    lead.LastName,
		FullName:    lead.FullName(),
		Email:       lead.Email,
		Phone:       lead.Phone,
		Company:     lead.Company,
		JobTitle:    lead.JobTitle,
		Status:      string(lead.Status),
		Source:      string(lead.Source),
		AssignedTo:  lead.AssignedTo,
		Notes:       lead.Notes,
		ConvertedAt: lead.ConvertedAt,
		Metadata:    lead.Metadata,
		CreatedAt:   lead.CreatedAt,
		UpdatedAt:   lead.UpdatedAt,
	}
}

func toConversationResponse(conversation *models.Conversation) dto.ConversationResponse {
	return dto.ConversationResponse{
		ID:        conversation.ID,
		Title:     conversation.Title,
		Status:    conversation.Status,
		LeadID:    conversation.LeadID,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
}

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
