package handlers

import (
	"net/http"

	"tesla-crm/internal/dto"
	"tesla-crm/internal/middleware"
	"tesla-crm/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Lead Handler
// CRUD over leads plus convert and aggregate stats.
// ===========================================================================

// LeadHandler handles lead endpoints
type LeadHandler struct {
	leadService services.LeadService
	logger      *zap.Logger
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService services.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		logger:      logger,
	}
}

// RegisterRoutes mounts the lead endpoints on a protected group.
// The stats route sits before :id so gin does not shadow it.
func (h *LeadHandler) RegisterRoutes(protected *gin.RouterGroup) {
	leads := protected.Group("/leads")
	{
		leads.POST("", h.Create)
		leads.GET("", h.List)
		leads.GET("/stats", h.Stats)
		leads.GET("/:id", h.Get)
		leads.PATCH("/:id", h.Update)
		leads.PUT("/:id", h.Update)
		leads.DELETE("/:id", h.Delete)
		leads.POST("/:id/convert", h.Convert)
	}
}

// Create registers a lead. A payload whose email is already known
// updates the existing lead and answers 200 instead of 201.
// POST /api/v1/leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req dto.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lead, created, err := h.leadService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		middleware.RecordLeadCreated(string(lead.Source))
	}

	c.JSON(status, dto.SuccessResponse(toLeadResponse(lead)))
}

// List returns leads filtered by status, source, assignee or free text
// GET /api/v1/leads
func (h *LeadHandler) List(c *gin.Context) {
	var query dto.ListLeadsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	leads, total, err := h.leadService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.LeadResponse, len(leads))
	for i := range leads {
		responses[i] = toLeadResponse(&leads[i])
	}

	c.JSON(http.StatusOK, dto.SuccessWithMeta(responses, total, query.PageNumber(), query.PageSize()))
}

// Get returns one lead
// GET /api/v1/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	lead, err := h.leadService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toLeadResponse(lead)))
}

// Update applies a partial update and audits the changed fields
// PATCH /api/v1/leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), id, req, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toLeadResponse(lead)))
}

// Delete removes a lead together with its conversations
// DELETE /api/v1/leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(gin.H{"deleted": true}))
}

// Convert marks a lead as won; converting a won lead is a no-op
// POST /api/v1/leads/:id/convert
func (h *LeadHandler) Convert(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	lead, err := h.leadService.Convert(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(toLeadResponse(lead)))
}

// Stats returns aggregate lead counters
// GET /api/v1/leads/stats
func (h *LeadHandler) Stats(c *gin.Context) {
	var query dto.LeadStatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	stats, err := h.leadService.Stats(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(stats))
}

// parseIDParam parses the :id path param as a UUID, answering 400 itself
// when the value is malformed
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("INVALID_REQUEST", "invalid id"))
		return uuid.Nil, false
	}
	return id, true
}
