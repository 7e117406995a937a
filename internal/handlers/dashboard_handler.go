package handlers

import (
	"net/http"

	"tesla-crm/internal/dto"
	"tesla-crm/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Dashboard Handler
// Landing page counters and the activity log.
// ===========================================================================

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	metricsService  services.MetricsService
	activityService services.ActivityService
	logger          *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	metricsService services.MetricsService,
	activityService services.ActivityService,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		metricsService:  metricsService,
		activityService: activityService,
		logger:          logger,
	}
}

// RegisterRoutes mounts the dashboard endpoints on a protected group
func (h *DashboardHandler) RegisterRoutes(protected *gin.RouterGroup) {
	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/stats", h.Stats)
		dashboard.GET("/activity", h.Activity)
	}
}

// Stats returns the dashboard counters
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.metricsService.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(stats))
}

// Activity returns audit entries newest first
// GET /api/v1/dashboard/activity
func (h *DashboardHandler) Activity(c *gin.Context) {
	var query dto.ListActivityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	entries, total, err := h.activityService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessWithMeta(entries, total, query.PageNumber(), query.PageSize()))
}
