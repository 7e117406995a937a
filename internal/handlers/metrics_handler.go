package handlers

import (
	"net/http"

	"tesla-crm/internal/dto"
	"tesla-crm/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Metrics Handler
// Reporting endpoints: range overview, time series, leaderboard and the
// activity log.
// ===========================================================================

// MetricsHandler handles reporting endpoints
type MetricsHandler struct {
	metricsService  services.MetricsService
	activityService services.ActivityService
	logger          *zap.Logger
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(
	metricsService services.MetricsService,
	activityService services.ActivityService,
	logger *zap.Logger,
) *MetricsHandler {
	return &MetricsHandler{
		metricsService:  metricsService,
		activityService: activityService,
		logger:          logger,
	}
}

// RegisterRoutes mounts the reporting endpoints on a protected group
func (h *MetricsHandler) RegisterRoutes(protected *gin.RouterGroup) {
	metrics := protected.Group("/metrics")
	{
		metrics.GET("/overview", h.Overview)
		metrics.GET("/series/:metric", h.Series)
		metrics.GET("/leaderboard", h.Leaderboard)
		metrics.GET("/activity", h.Activity)
	}
}

// Overview returns headline numbers for the selected range
// GET /api/v1/metrics/overview
func (h *MetricsHandler) Overview(c *gin.Context) {
	var query dto.MetricsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	overview, err := h.metricsService.Overview(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(overview))
}

// Series returns a time series for the named metric. Unsupported metrics
// answer 501 rather than made-up values.
// GET /api/v1/metrics/series/:metric
func (h *MetricsHandler) Series(c *gin.Context) {
	var query dto.SeriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	series, err := h.metricsService.Series(c.Request.Context(), c.Param("metric"), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(series))
}

// Leaderboard ranks agents by conversions in the selected range
// GET /api/v1/metrics/leaderboard
func (h *MetricsHandler) Leaderboard(c *gin.Context) {
	var query dto.MetricsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	leaderboard, err := h.metricsService.Leaderboard(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse(leaderboard))
}

// Activity returns audit entries newest first, optionally bounded to a
// time range
// GET /api/v1/metrics/activity
func (h *MetricsHandler) Activity(c *gin.Context) {
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
