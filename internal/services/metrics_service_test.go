package services

import (
	"context"
	"testing"
	"time"

	"tesla-crm/internal/dto"
	apperrors "tesla-crm/internal/errors"
	"tesla-crm/internal/models"
	"tesla-crm/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// noUser no assignee filter
var noUser *uuid.UUID

type metricsFixture struct {
	leadRepo         *MockLeadRepository
	conversationRepo *MockConversationRepository
	messageRepo      *MockMessageRepository
	userRepo         *MockUserRepository
	activityRepo     *MockActivityRepository
	svc              *metricsServiceImpl
}

func newMetricsFixture(now time.Time) *metricsFixture {
	f := &metricsFixture{
		leadRepo:         new(MockLeadRepository),
		conversationRepo: new(MockConversationRepository),
		messageRepo:      new(MockMessageRepository),
		userRepo:         new(MockUserRepository),
		activityRepo:     new(MockActivityRepository),
	}
	svc := NewMetricsService(f.leadRepo, f.conversationRepo, f.messageRepo, f.userRepo, f.activityRepo, zap.NewNop()).(*metricsServiceImpl)
	svc.now = func() time.Time { return now }
	f.svc = svc
	return f
}

func TestOverviewComputesConversionRate(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	start := day(2025, 8, 1)
	end := day(2025, 8, 14)
	prevStart := day(2025, 7, 19)
	f.leadRepo.On("CountCreatedBetween", ctx, start, end, noUser).Return(int64(40), nil)
	f.leadRepo.On("CountCreatedBetween", ctx, prevStart, start, noUser).Return(int64(20), nil)
	f.leadRepo.On("CountConvertedBetween", ctx, start, end, noUser).Return(int64(10), nil)
	f.conversationRepo.On("CountCreatedBetween", ctx, start, end).Return(int64(25), nil)
	f.messageRepo.On("CountCreatedBetween", ctx, start, end).Return(int64(120), nil)

	overview, err := f.svc.Overview(ctx, dto.MetricsQuery{Range: "this_month"})

	require.NoError(t, err)
	assert.Equal(t, int64(40), overview.TotalLeads)
	assert.Equal(t, int64(10), overview.ConvertedLeads)
	assert.InDelta(t, 25.0, overview.ConversionRate, 1e-9)
	// twice the previous period's volume is a 100% climb
	assert.InDelta(t, 100.0, overview.Trend, 1e-9)
}

func TestOverviewZeroLeadsZeroRate(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	start := day(2025, 8, 13)
	end := day(2025, 8, 14)
	f.leadRepo.On("CountCreatedBetween", ctx, start, end, noUser).Return(int64(0), nil)
	f.leadRepo.On("CountCreatedBetween", ctx, day(2025, 8, 12), start, noUser).Return(int64(0), nil)
	f.leadRepo.On("CountConvertedBetween", ctx, start, end, noUser).Return(int64(0), nil)
	f.conversationRepo.On("CountCreatedBetween", ctx, start, end).Return(int64(0), nil)
	f.messageRepo.On("CountCreatedBetween", ctx, start, end).Return(int64(0), nil)

	overview, err := f.svc.Overview(ctx, dto.MetricsQuery{Range: "today"})

	require.NoError(t, err)
	assert.Zero(t, overview.ConversionRate)
	// an empty previous period yields no trend instead of dividing by zero
	assert.Zero(t, overview.Trend)
}

func TestOverviewTrendAgainstPreviousPeriod(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	start := day(2025, 8, 13)
	end := day(2025, 8, 14)
	prevStart := day(2025, 8, 12)
	f.leadRepo.On("CountCreatedBetween", ctx, start, end, noUser).Return(int64(3), nil)
	f.leadRepo.On("CountCreatedBetween", ctx, prevStart, start, noUser).Return(int64(4), nil)
	f.leadRepo.On("CountConvertedBetween", ctx, start, end, noUser).Return(int64(0), nil)
	f.conversationRepo.On("CountCreatedBetween", ctx, start, end).Return(int64(0), nil)
	f.messageRepo.On("CountCreatedBetween", ctx, start, end).Return(int64(0), nil)

	overview, err := f.svc.Overview(ctx, dto.MetricsQuery{Range: "today"})

	require.NoError(t, err)
	assert.InDelta(t, -25.0, overview.Trend, 1e-9)
}

func TestOverviewScopedToAssignee(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	userID := uuid.New()
	start := day(2025, 8, 1)
	end := day(2025, 8, 14)
	prevStart := day(2025, 7, 19)
	f.leadRepo.On("CountCreatedBetween", ctx, start, end, &userID).Return(int64(6), nil)
	f.leadRepo.On("CountCreatedBetween", ctx, prevStart, start, &userID).Return(int64(6), nil)
	f.leadRepo.On("CountConvertedBetween", ctx, start, end, &userID).Return(int64(3), nil)
	f.conversationRepo.On("CountCreatedBetween", ctx, start, end).Return(int64(0), nil)
	f.messageRepo.On("CountCreatedBetween", ctx, start, end).Return(int64(0), nil)

	overview, err := f.svc.Overview(ctx, dto.MetricsQuery{
		Range:  "this_month",
		UserID: userID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(6), overview.TotalLeads)
	assert.InDelta(t, 50.0, overview.ConversionRate, 1e-9)
}

func TestSeriesFillsEmptyBuckets(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	start := day(2025, 8, 11)
	end := day(2025, 8, 14)
	f.leadRepo.On("CreatedSeries", ctx, start, end, "day", noUser).Return([]repositories.BucketCount{
		{Bucket: day(2025, 8, 12), Count: 3},
	}, nil)

	series, err := f.svc.Series(ctx, MetricLeadsCreated, dto.SeriesQuery{
		MetricsQuery: dto.MetricsQuery{Range: "this_week"},
		Interval:     "day",
	})

	require.NoError(t, err)
	require.Len(t, series.Points, 3)
	assert.Equal(t, "2025-08-11", series.Points[0].Date)
	assert.Zero(t, series.Points[0].Value)
	assert.Equal(t, float64(3), series.Points[1].Value)
	assert.Zero(t, series.Points[2].Value)
}

func TestSeriesActivityCount(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	start := day(2025, 8, 12)
	end := day(2025, 8, 13)
	f.activityRepo.On("CountSeries", ctx, start, end, "day", noUser).Return([]repositories.BucketCount{
		{Bucket: day(2025, 8, 12), Count: 9},
	}, nil)

	series, err := f.svc.Series(ctx, MetricActivityCount, dto.SeriesQuery{
		MetricsQuery: dto.MetricsQuery{Range: "yesterday"},
		Interval:     "day",
	})

	require.NoError(t, err)
	require.Len(t, series.Points, 1)
	assert.Equal(t, float64(9), series.Points[0].Value)
	f.activityRepo.AssertExpectations(t)
}

func TestSeriesConversionRatePerBucket(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	start := day(2025, 8, 12)
	end := day(2025, 8, 13)
	f.leadRepo.On("CreatedSeries", ctx, start, end, "day", noUser).Return([]repositories.BucketCount{
		{Bucket: day(2025, 8, 12), Count: 4},
	}, nil)
	f.leadRepo.On("ConvertedSeries", ctx, start, end, "day", noUser).Return([]repositories.BucketCount{
		{Bucket: day(2025, 8, 12), Count: 1},
	}, nil)

	series, err := f.svc.Series(ctx, MetricConversionRate, dto.SeriesQuery{
		MetricsQuery: dto.MetricsQuery{Range: "yesterday"},
		Interval:     "day",
	})

	require.NoError(t, err)
	require.Len(t, series.Points, 1)
	assert.InDelta(t, 25.0, series.Points[0].Value, 1e-9)
}

func TestSeriesUnbackedMetricsNotImplemented(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	for _, metric := range []string{MetricResponseTime, MetricRevenue} {
		_, err := f.svc.Series(ctx, metric, dto.SeriesQuery{
			MetricsQuery: dto.MetricsQuery{Range: "today"},
		})
		assert.ErrorIs(t, err, apperrors.ErrNotImplemented, metric)
	}
}

func TestSeriesUnknownMetricInvalid(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	_, err := f.svc.Series(ctx, "deals_signed", dto.SeriesQuery{
		MetricsQuery: dto.MetricsQuery{Range: "today"},
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestLeaderboardRanksAndRates(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	start := day(2025, 8, 1)
	end := day(2025, 8, 14)
	f.leadRepo.On("Leaderboard", ctx, start, end).Return([]repositories.LeaderboardRow{
		{UserID: uuid.New(), FirstName: "Ana", LastName: "Vargas", LeadCount: 10, ConvertedCount: 5, ContactsMade: 7, MeetingsScheduled: 2},
		{UserID: uuid.New(), FirstName: "Luis", LastName: "Paredes", LeadCount: 8, ConvertedCount: 0},
		{UserID: uuid.New(), FirstName: "Rosa", LastName: "Quispe", LeadCount: 0, ConvertedCount: 0},
	}, nil)

	board, err := f.svc.Leaderboard(ctx, dto.MetricsQuery{Range: "this_month"})

	require.NoError(t, err)
	require.Len(t, board.Entries, 3)
	assert.Equal(t, "Ana Vargas", board.Entries[0].FullName)
	assert.InDelta(t, 50.0, board.Entries[0].ConversionRate, 1e-9)
	assert.Equal(t, int64(7), board.Entries[0].ContactsMade)
	assert.Equal(t, int64(2), board.Entries[0].MeetingsScheduled)
	// an agent with zero leads converted must not divide by zero
	assert.Zero(t, board.Entries[1].ConversionRate)
	// agents without leads in the period still get a row
	assert.Zero(t, board.Entries[2].LeadCount)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	f.leadRepo.On("CountsByStatus", ctx).Return(map[string]int64{
		"new": 12, "won": 4, "lost": 4,
	}, nil)
	f.conversationRepo.On("Count", ctx, "active").Return(int64(3), nil)
	f.conversationRepo.On("Count", ctx, "").Return(int64(9), nil)
	f.messageRepo.On("Count", ctx).Return(int64(200), nil)
	f.userRepo.On("Count", ctx).Return(int64(6), nil)
	f.userRepo.On("CountActive", ctx).Return(int64(4), nil)
	f.leadRepo.On("CountCreatedBetween", ctx, day(2025, 8, 6), day(2025, 8, 14), noUser).Return(int64(5), nil)
	f.leadRepo.On("CountCreatedBetween", ctx, day(2025, 8, 1), day(2025, 8, 14), noUser).Return(int64(7), nil)
	f.leadRepo.On("CountCreatedBetween", ctx, day(2025, 8, 13), day(2025, 8, 14), noUser).Return(int64(2), nil)
	f.activityRepo.On("Find", ctx, repositories.ActivityFilter{}, mock.MatchedBy(func(opts repositories.FindOptions) bool {
		return opts.Limit == 5
	})).Return([]models.ActivityLog{
		{Action: "lead.created", EntityType: models.EntityLead},
		{Action: "lead.converted", EntityType: models.EntityLead},
	}, int64(2), nil)

	stats, err := f.svc.DashboardStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(20), stats.TotalLeads)
	assert.Equal(t, int64(5), stats.NewLeads)
	assert.Equal(t, int64(4), stats.ConvertedLeads)
	assert.InDelta(t, 20.0, stats.ConversionRate, 1e-9)
	assert.Equal(t, int64(3), stats.ActiveConversations)
	assert.Equal(t, int64(4), stats.ActiveUsers)
	assert.Equal(t, int64(7), stats.LeadsThisMonth)
	assert.Equal(t, int64(2), stats.LeadsToday)
	require.Len(t, stats.RecentActivities, 2)
	assert.Equal(t, "lead.created", stats.RecentActivities[0].Action)
}

func TestLeaderboardInvalidCustomRange(t *testing.T) {
	ctx := context.Background()
	f := newMetricsFixture(refNow)

	_, err := f.svc.Leaderboard(ctx, dto.MetricsQuery{Range: "custom"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
