package services

import (
	"context"
	"fmt"
	"time"

	"tesla-crm/internal/dto"
	apperrors "tesla-crm/internal/errors"
	"tesla-crm/internal/models"
	"tesla-crm/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Metrics Service Implementation
// ===========================================================================

// metricsServiceImpl implements MetricsService
type metricsServiceImpl struct {
	leadRepo         repositories.LeadRepository
	conversationRepo repositories.ConversationRepository
	messageRepo      repositories.MessageRepository
	userRepo         repositories.UserRepository
	activityRepo     repositories.ActivityRepository
	now              func() time.Time
	logger           *zap.Logger
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(
	leadRepo repositories.LeadRepository,
	conversationRepo repositories.ConversationRepository,
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	activityRepo repositories.ActivityRepository,
	logger *zap.Logger,
) MetricsService {
	return &metricsServiceImpl{
		leadRepo:         leadRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		activityRepo:     activityRepo,
		now:              time.Now,
		logger:           logger,
	}
}

// recentActivityCount audit entries shown on the dashboard landing page
const recentActivityCount = 5

// userFilter parses the optional user_id query value. Format errors are
// caught by binding before the service sees them.
func userFilter(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// Overview returns headline numbers for a resolved range
func (s *metricsServiceImpl) Overview(ctx context.Context, query dto.MetricsQuery) (*dto.OverviewResponse, error) {
	r, err := ResolveTimeRange(query.Range, query.StartDate, query.EndDate, s.now())
	if err != nil {
		return nil, err
	}
	assignedTo := userFilter(query.UserID)

	totalLeads, err := s.leadRepo.CountCreatedBetween(ctx, r.Start, r.End, assignedTo)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	converted, err := s.leadRepo.CountConvertedBetween(ctx, r.Start, r.End, assignedTo)
	if err != nil {
		return nil, fmt.Errorf("count conversions: %w", err)
	}

	conversations, err := s.conversationRepo.CountCreatedBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("count conversations: %w", err)
	}

	messages, err := s.messageRepo.CountCreatedBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	// trend compares lead volume against the equally long period
	// immediately before the range
	prevStart := r.Start.Add(-r.End.Sub(r.Start))
	previousLeads, err := s.leadRepo.CountCreatedBetween(ctx, prevStart, r.Start, assignedTo)
	if err != nil {
		return nil, fmt.Errorf("count previous leads: %w", err)
	}
	var trend float64
	if previousLeads > 0 {
		trend = float64(totalLeads-previousLeads) / float64(previousLeads) * 100
	}

	return &dto.OverviewResponse{
		StartDate:      r.Start,
		EndDate:        r.End,
		TotalLeads:     totalLeads,
		ConvertedLeads: converted,
		ConversionRate: rate(converted, totalLeads),
		Conversations:  conversations,
		Messages:       messages,
		Trend:          trend,
	}, nil
}

// Series returns a time-bucketed metric
func (s *metricsServiceImpl) Series(ctx context.Context, metric string, query dto.SeriesQuery) (*dto.SeriesResponse, error) {
	r, err := ResolveTimeRange(query.Range, query.StartDate, query.EndDate, s.now())
	if err != nil {
		return nil, err
	}

	interval := query.Interval
	if interval == "" {
		interval = "day"
	}
	assignedTo := userFilter(query.UserID)

	var points []dto.SeriesPoint

	switch metric {
	case MetricLeadsCreated:
		buckets, err := s.leadRepo.CreatedSeries(ctx, r.Start, r.End, interval, assignedTo)
		if err != nil {
			return nil, fmt.Errorf("created series: %w", err)
		}
		points = fillBuckets(buckets, r, interval, func(count int64) float64 {
			return float64(count)
		})

	case MetricActivityCount:
		buckets, err := s.activityRepo.CountSeries(ctx, r.Start, r.End, interval, assignedTo)
		if err != nil {
			return nil, fmt.Errorf("activity series: %w", err)
		}
		points = fillBuckets(buckets, r, interval, func(count int64) float64 {
			return float64(count)
		})

	case MetricConversionRate:
		created, err := s.leadRepo.CreatedSeries(ctx, r.Start, r.End, interval, assignedTo)
		if err != nil {
			return nil, fmt.Errorf("created series: %w", err)
		}
		converted, err := s.leadRepo.ConvertedSeries(ctx, r.Start, r.End, interval, assignedTo)
		if err != nil {
			return nil, fmt.Errorf("converted series: %w", err)
		}
		points = conversionRatePoints(created, converted, r, interval)

	case MetricResponseTime, MetricRevenue:
		// no data source backs these yet; refusing beats inventing numbers
		return nil, apperrors.New(apperrors.ErrNotImplemented, "metric not available: "+metric)

	default:
		return nil, apperrors.New(apperrors.ErrInvalidInput, "unknown metric: "+metric)
	}

	return &dto.SeriesResponse{
		Metric:    metric,
		Interval:  interval,
		StartDate: r.Start,
		EndDate:   r.End,
		Points:    points,
	}, nil
}

// Leaderboard ranks agents by conversions, then lead count
func (s *metricsServiceImpl) Leaderboard(ctx context.Context, query dto.MetricsQuery) (*dto.LeaderboardResponse, error) {
	r, err := ResolveTimeRange(query.Range, query.StartDate, query.EndDate, s.now())
	if err != nil {
		return nil, err
	}

	rows, err := s.leadRepo.Leaderboard(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	assignedTo := userFilter(query.UserID)

	entries := make([]dto.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		if assignedTo != nil && row.UserID != *assignedTo {
			continue
		}
		user := models.User{FirstName: row.FirstName, LastName: row.LastName}
		entries = append(entries, dto.LeaderboardEntry{
			UserID:            row.UserID,
			FullName:          user.FullName(),
			LeadCount:         row.LeadCount,
			ConvertedCount:    row.ConvertedCount,
			ConversionRate:    rate(row.ConvertedCount, row.LeadCount),
			ContactsMade:      row.ContactsMade,
			MeetingsScheduled: row.MeetingsScheduled,
		})
	}

	return &dto.LeaderboardResponse{
		StartDate: r.Start,
		EndDate:   r.End,
		Entries:   entries,
	}, nil
}

// DashboardStats returns the counters for the dashboard landing page
func (s *metricsServiceImpl) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	now := s.now()

	byStatus, err := s.leadRepo.CountsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counts by status: %w", err)
	}

	var totalLeads int64
	for _, count := range byStatus {
		totalLeads += count
	}
	converted := byStatus[string(models.LeadWon)]

	activeConversations, err := s.conversationRepo.Count(ctx, models.ConversationStatusActive)
	if err != nil {
		return nil, fmt.Errorf("count active conversations: %w", err)
	}

	totalConversations, err := s.conversationRepo.Count(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("count conversations: %w", err)
	}

	totalMessages, err := s.messageRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	activeUsers, err := s.userRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}

	today := startOfDay(now)
	newLeads, err := s.leadRepo.CountCreatedBetween(ctx, today.AddDate(0, 0, -7), today.AddDate(0, 0, 1), nil)
	if err != nil {
		return nil, fmt.Errorf("count new leads: %w", err)
	}

	recent, _, err := s.activityRepo.Find(ctx, repositories.ActivityFilter{}, repositories.FindOptions{Limit: recentActivityCount})
	if err != nil {
		return nil, fmt.Errorf("recent activities: %w", err)
	}
	recentActivities := make([]dto.ActivityLogResponse, 0, len(recent))
	for i := range recent {
		recentActivities = append(recentActivities, toActivityResponse(&recent[i]))
	}

	monthRange, err := ResolveTimeRange("this_month", "", "", now)
	if err != nil {
		return nil, err
	}
	leadsThisMonth, err := s.leadRepo.CountCreatedBetween(ctx, monthRange.Start, monthRange.End, nil)
	if err != nil {
		return nil, fmt.Errorf("count month leads: %w", err)
	}

	todayRange, err := ResolveTimeRange("today", "", "", now)
	if err != nil {
		return nil, err
	}
	leadsToday, err := s.leadRepo.CountCreatedBetween(ctx, todayRange.Start, todayRange.End, nil)
	if err != nil {
		return nil, fmt.Errorf("count today leads: %w", err)
	}

	return &dto.DashboardStatsResponse{
		TotalLeads:          totalLeads,
		NewLeads:            newLeads,
		LeadsByStatus:       byStatus,
		ConvertedLeads:      converted,
		ConversionRate:      rate(converted, totalLeads),
		ActiveConversations: activeConversations,
		TotalConversations:  totalConversations,
		TotalMessages:       totalMessages,
		TotalUsers:          totalUsers,
		ActiveUsers:         activeUsers,
		LeadsThisMonth:      leadsThisMonth,
		LeadsToday:          leadsToday,
		RecentActivities:    recentActivities,
	}, nil
}

// rate returns part/whole as a percent, zero when whole is zero
func rate(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// fillBuckets expands sparse query buckets into a dense series over the
// range, one point per interval step, zeros where nothing happened.
func fillBuckets(buckets []repositories.BucketCount, r TimeRange, interval string, value func(int64) float64) []dto.SeriesPoint {
	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		counts[bucketKey(b.Bucket, interval)] = b.Count
	}

	var points []dto.SeriesPoint
	for cursor := truncate(r.Start, interval); cursor.Before(r.End); cursor = step(cursor, interval) {
		key := bucketKey(cursor, interval)
		points = append(points, dto.SeriesPoint{
			Date:  key,
			Value: value(counts[key]),
		})
	}
	return points
}

// conversionRatePoints divides converted by created per bucket
func conversionRatePoints(created, converted []repositories.BucketCount, r TimeRange, interval string) []dto.SeriesPoint {
	createdCounts := make(map[string]int64, len(created))
	for _, b := range created {
		createdCounts[bucketKey(b.Bucket, interval)] = b.Count
	}
	convertedCounts := make(map[string]int64, len(converted))
	for _, b := range converted {
		convertedCounts[bucketKey(b.Bucket, interval)] = b.Count
	}

	var points []dto.SeriesPoint
	for cursor := truncate(r.Start, interval); cursor.Before(r.End); cursor = step(cursor, interval) {
		key := bucketKey(cursor, interval)
		points = append(points, dto.SeriesPoint{
			Date:  key,
			Value: rate(convertedCounts[key], createdCounts[key]),
		})
	}
	return points
}

// bucketKey formats a bucket timestamp for the wire
func bucketKey(t time.Time, interval string) string {
	return truncate(t, interval).Format(dateLayout)
}

// truncate aligns a timestamp to its bucket start, matching date_trunc
func truncate(t time.Time, interval string) time.Time {
	switch interval {
	case "week":
		return startOfWeek(t)
	case "month":
		return startOfMonth(t)
	default:
		return startOfDay(t)
	}
}

// step advances one bucket
func step(t time.Time, interval string) time.Time {
	switch interval {
	case "week":
		return t.AddDate(0, 0, 7)
	case "month":
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}
