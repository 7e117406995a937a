package services

import (
	"context"

	"tesla-crm/internal/dto"
)

// ===========================================================================
// Metrics Service Interface
// Time-bucketed series and headline numbers for the reporting screens.
// All ranges resolve through the shared time range resolver.
// ===========================================================================

// Series metric names
const (
	MetricLeadsCreated   = "leads_created"
	MetricActivityCount  = "activity_count"
	MetricConversionRate = "conversion_rate"
	MetricResponseTime   = "response_time"
	MetricRevenue        = "revenue"
)

// MetricsService interface for reporting
type MetricsService interface {
	// Overview returns headline numbers for a resolved range
	Overview(ctx context.Context, query dto.MetricsQuery) (*dto.OverviewResponse, error)

	// Series returns a time-bucketed metric. response_time and revenue
	// fail with a not-implemented error rather than returning fabricated
	// numbers.
	Series(ctx context.Context, metric string, query dto.SeriesQuery) (*dto.SeriesResponse, error)

	// Leaderboard ranks agents by conversions, then lead count
	Leaderboard(ctx context.Context, query dto.MetricsQuery) (*dto.LeaderboardResponse, error)

	// DashboardStats returns the counters for the dashboard landing page,
	// including the most recent audit entries
	DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
}
