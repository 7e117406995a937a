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
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func newLeadService(leadRepo *MockLeadRepository, activityRepo *MockActivityRepository, notifier *MockNotifier) LeadService {
	logger := zap.NewNop()
	activity := NewActivityService(activityRepo, logger)
	return NewLeadService(leadRepo, activity, notifier, logger)
}

func TestCreateLeadNew(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	leadRepo.On("FindByEmail", ctx, "nuevo@example.com").Return(nil, gorm.ErrRecordNotFound)
	leadRepo.On("Create", ctx, mock.AnythingOfType("*models.Lead")).Return(nil)
	activityRepo.On("Create", ctx, mock.AnythingOfType("*models.ActivityLog")).Return(nil)
	notifier.On("NotifyNewLead", ctx, mock.AnythingOfType("*models.Lead")).Return()

	svc := newLeadService(leadRepo, activityRepo, notifier)

	lead, created, err := svc.Create(ctx, dto.CreateLeadRequest{
		FirstName: "Rosa",
		LastName:  "Torres",
		Email:     strPtr("nuevo@example.com"),
		Source:    "chat",
	}, Actor{})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.LeadNew, lead.Status)
	assert.Equal(t, models.SourceChat, lead.Source)
	notifier.AssertCalled(t, "NotifyNewLead", ctx, mock.Anything)
	activityRepo.AssertCalled(t, "Create", ctx, mock.Anything)
}

func TestCreateLeadUpsertsOnKnownEmail(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	existing := &models.Lead{
		FirstName: "Rosa",
		LastName:  "Torres",
		Email:     strPtr("rosa@example.com"),
		Status:    models.LeadContacted,
		Source:    models.SourceWebsite,
	}
	existing.ID = uuid.New()

	leadRepo.On("FindByEmail", ctx, "rosa@example.com").Return(existing, nil)
	leadRepo.On("Update", ctx, existing).Return(nil)
	activityRepo.On("Create", ctx, mock.AnythingOfType("*models.ActivityLog")).Return(nil)

	svc := newLeadService(leadRepo, activityRepo, notifier)

	lead, created, err := svc.Create(ctx, dto.CreateLeadRequest{
		FirstName: "Rosa",
		LastName:  "Torres",
		Email:     strPtr("rosa@example.com"),
		Phone:     strPtr("987654321"),
	}, Actor{})

	require.NoError(t, err)
	assert.False(t, created, "existing email must not create a second lead")
	assert.Equal(t, existing.ID, lead.ID)
	require.NotNil(t, lead.Phone)
	assert.Equal(t, "987654321", *lead.Phone)
	// the existing pipeline status survives the upsert
	assert.Equal(t, models.LeadContacted, lead.Status)
	leadRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "NotifyNewLead", mock.Anything, mock.Anything)
}

func TestUpdateLeadNoChangesSkipsWrite(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	existing := &models.Lead{FirstName: "Rosa", LastName: "Torres", Status: models.LeadNew, Source: models.SourceWebsite}
	existing.ID = uuid.New()

	leadRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)

	svc := newLeadService(leadRepo, activityRepo, notifier)

	_, err := svc.Update(ctx, existing.ID, dto.UpdateLeadRequest{
		FirstName: strPtr("Rosa"),
	}, Actor{})

	require.NoError(t, err)
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	activityRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateLeadRecordsFieldDiff(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	existing := &models.Lead{FirstName: "Rosa", Status: models.LeadNew, Source: models.SourceWebsite}
	existing.ID = uuid.New()

	leadRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	leadRepo.On("Update", ctx, existing).Return(nil)

	var recorded *models.ActivityLog
	activityRepo.On("Create", ctx, mock.AnythingOfType("*models.ActivityLog")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*models.ActivityLog)
		}).
		Return(nil)

	svc := newLeadService(leadRepo, activityRepo, notifier)

	_, err := svc.Update(ctx, existing.ID, dto.UpdateLeadRequest{
		Status: strPtr("qualified"),
	}, Actor{})

	require.NoError(t, err)
	require.NotNil(t, recorded)
	assert.Equal(t, "lead.updated", recorded.Action)

	statusDiff, ok := recorded.Details["status"].(map[string]interface{})
	require.True(t, ok, "diff must be {field: {old, new}}")
	assert.Equal(t, "new", statusDiff["old"])
	assert.Equal(t, "qualified", statusDiff["new"])
}

func TestConvertLead(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	existing := &models.Lead{FirstName: "Rosa", Status: models.LeadNegotiation, Source: models.SourceWebsite}
	existing.ID = uuid.New()

	leadRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	leadRepo.On("Update", ctx, existing).Return(nil)
	activityRepo.On("Create", ctx, mock.AnythingOfType("*models.ActivityLog")).Return(nil)

	svc := newLeadService(leadRepo, activityRepo, notifier)

	lead, err := svc.Convert(ctx, existing.ID, Actor{})

	require.NoError(t, err)
	assert.Equal(t, models.LeadWon, lead.Status)
	require.NotNil(t, lead.ConvertedAt)
}

func TestConvertLeadNotFound(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	id := uuid.New()
	leadRepo.On("FindByID", ctx, id).Return(nil, gorm.ErrRecordNotFound)

	svc := newLeadService(leadRepo, activityRepo, notifier)

	_, err := svc.Convert(ctx, id, Actor{})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConvertLeadAlreadyWonIsNoop(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	existing := &models.Lead{FirstName: "Rosa", Status: models.LeadWon, Source: models.SourceWebsite}
	existing.ID = uuid.New()

	leadRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)

	svc := newLeadService(leadRepo, activityRepo, notifier)

	lead, err := svc.Convert(ctx, existing.ID, Actor{})

	require.NoError(t, err)
	assert.Equal(t, models.LeadWon, lead.Status)
	leadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLeadStats(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	var noBound *time.Time
	leadRepo.On("CountsByStatus", ctx).Return(map[string]int64{
		"new": 5, "won": 2, "lost": 1,
	}, nil)
	leadRepo.On("SourceStats", ctx, noBound, noBound).Return([]repositories.SourceStat{
		{Source: "website", Total: 6, Converted: 2},
		{Source: "chat", Total: 2, Converted: 0},
	}, nil)
	leadRepo.On("CountUnassigned", ctx).Return(int64(3), nil)

	svc := newLeadService(leadRepo, activityRepo, notifier)

	stats, err := svc.Stats(ctx, dto.LeadStatsQuery{})

	require.NoError(t, err)
	assert.Equal(t, int64(8), stats.Total)
	assert.Equal(t, int64(2), stats.Converted)
	assert.InDelta(t, 25.0, stats.ConversionRate, 0.001)
	assert.Equal(t, int64(3), stats.Unassigned)

	// every pipeline stage appears even when it has no leads yet
	for _, status := range models.ValidLeadStatuses() {
		_, ok := stats.ByStatus[string(status)]
		assert.True(t, ok, string(status))
	}

	require.NotEmpty(t, stats.BySource)
	assert.Equal(t, "website", stats.BySource[0].Source)
	assert.Equal(t, int64(6), stats.BySource[0].TotalLeads)
	assert.Equal(t, int64(2), stats.BySource[0].ConvertedLeads)
	assert.InDelta(t, 33.333, stats.BySource[0].ConversionRate, 0.001)
	// sources without leads are listed with zero counts
	assert.Len(t, stats.BySource, len(models.ValidLeadSources()))
}

func TestLeadStatsDateBounds(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	leadRepo.On("CountsByStatus", ctx).Return(map[string]int64{}, nil)
	leadRepo.On("CountUnassigned", ctx).Return(int64(0), nil)

	var from, to *time.Time
	leadRepo.On("SourceStats", ctx, mock.AnythingOfType("*time.Time"), mock.AnythingOfType("*time.Time")).
		Run(func(args mock.Arguments) {
			from = args.Get(1).(*time.Time)
			to = args.Get(2).(*time.Time)
		}).
		Return([]repositories.SourceStat{}, nil)

	svc := newLeadService(leadRepo, activityRepo, notifier)

	_, err := svc.Stats(ctx, dto.LeadStatsQuery{
		StartDate: "2025-08-01",
		EndDate:   "2025-08-10",
	})

	require.NoError(t, err)
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.True(t, from.Equal(time.Date(2025, 8, 1, 0, 0, 0, 0, time.Local)))
	// the end date is inclusive
	assert.True(t, to.Equal(time.Date(2025, 8, 11, 0, 0, 0, 0, time.Local)))
}

func TestDeleteLeadAuditsSnapshot(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	existing := &models.Lead{
		FirstName: "Rosa",
		LastName:  "Torres",
		Email:     strPtr("rosa@example.com"),
		Status:    models.LeadQualified,
		Source:    models.SourceWebsite,
	}
	existing.ID = uuid.New()

	leadRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	leadRepo.On("Delete", ctx, existing.ID).Return(nil)

	var recorded *models.ActivityLog
	activityRepo.On("Create", ctx, mock.AnythingOfType("*models.ActivityLog")).
		Run(func(args mock.Arguments) {
			recorded = args.Get(1).(*models.ActivityLog)
		}).
		Return(nil)

	svc := newLeadService(leadRepo, activityRepo, notifier)

	require.NoError(t, svc.Delete(ctx, existing.ID, Actor{}))

	require.NotNil(t, recorded)
	assert.Equal(t, "lead.deleted", recorded.Action)
	snapshot, ok := recorded.Details["lead_data"].(map[string]interface{})
	require.True(t, ok, "audit entry must keep a snapshot of the deleted lead")
	assert.Equal(t, "Rosa Torres", snapshot["name"])
	assert.Equal(t, "rosa@example.com", snapshot["email"])
	assert.Equal(t, "qualified", snapshot["status"])
}

func TestCreateLeadUpsertRefreshesStatusAndSource(t *testing.T) {
	ctx := context.Background()
	leadRepo := new(MockLeadRepository)
	activityRepo := new(MockActivityRepository)
	notifier := new(MockNotifier)

	assignee := uuid.New()
	existing := &models.Lead{
		FirstName: "Rosa",
		LastName:  "Torres",
		Email:     strPtr("rosa@example.com"),
		Status:    models.LeadNew,
		Source:    models.SourceWebsite,
	}
	existing.ID = uuid.New()

	leadRepo.On("FindByEmail", ctx, "rosa@example.com").Return(existing, nil)
	leadRepo.On("Update", ctx, existing).Return(nil)
	activityRepo.On("Create", ctx, mock.AnythingOfType("*models.ActivityLog")).Return(nil)

	svc := newLeadService(leadRepo, activityRepo, notifier)

	lead, created, err := svc.Create(ctx, dto.CreateLeadRequest{
		FirstName:  "Rosa",
		LastName:   "Torres",
		Email:      strPtr("rosa@example.com"),
		Status:     "contacted",
		Source:     "chat",
		AssignedTo: &assignee,
	}, Actor{})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, models.LeadContacted, lead.Status)
	assert.Equal(t, models.SourceChat, lead.Source)
	require.NotNil(t, lead.AssignedTo)
	assert.Equal(t, assignee, *lead.AssignedTo)
}
