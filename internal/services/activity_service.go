package services

import (
	"context"
	"time"

	"tesla-crm/internal/dto"
	"tesla-crm/internal/models"
	"tesla-crm/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Activity Service
// Append-only audit trail. Recording is best effort: a failed audit write
// is logged and never fails the primary operation.
// ===========================================================================

// Actor identifies who performed an operation and from where
type Actor struct {
	// UserID acting user, nil for anonymous (public chat widget)
	UserID *uuid.UUID

	// IPAddress client IP captured from the request
	IPAddress *string

	// UserAgent client user agent captured from the request
	UserAgent *string
}

// ActivityRecord one audit entry waiting to be persisted
type ActivityRecord struct {
	// Action dotted verb, e.g. "lead.created"
	Action string

	// EntityType what kind of entity was touched
	EntityType models.EntityType

	// EntityID the touched entity
	EntityID *uuid.UUID

	// Details structured payload, e.g. field diffs {field: {old, new}}
	Details map[string]interface{}
}

// ActivityService interface for the audit trail
type ActivityService interface {
	// Record appends an audit entry. Never returns an error.
	Record(ctx context.Context, actor Actor, rec ActivityRecord)

	// List returns audit entries newest first
	List(ctx context.Context, query dto.ListActivityQuery) ([]dto.ActivityLogResponse, int64, error)
}

// ===========================================================================
// Activity Service Implementation
// ===========================================================================

// activityServiceImpl implements ActivityService
type activityServiceImpl struct {
	activityRepo repositories.ActivityRepository
	logger       *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(
	activityRepo repositories.ActivityRepository,
	logger *zap.Logger,
) ActivityService {
	return &activityServiceImpl{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Record appends an audit entry
func (s *activityServiceImpl) Record(ctx context.Context, actor Actor, rec ActivityRecord) {
	if !rec.EntityType.IsValid() {
		s.logger.Warn("activity entry dropped: unknown entity type",
			zap.String("entity_type", string(rec.EntityType)),
			zap.String("action", rec.Action),
		)
		return
	}

	entry := &models.ActivityLog{
		Action:     rec.Action,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		UserID:     actor.UserID,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		Details:    models.ActivityDetails(rec.Details),
	}

	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.logger.Error("record activity failed",
			zap.Error(err),
			zap.String("action", rec.Action),
		)
	}
}

// List returns audit entries newest first
func (s *activityServiceImpl) List(ctx context.Context, query dto.ListActivityQuery) ([]dto.ActivityLogResponse, int64, error) {
	filter := repositories.ActivityFilter{
		EntityType: query.EntityType,
		Action:     query.Action,
	}
	if query.EntityID != "" {
		id, err := uuid.Parse(query.EntityID)
		if err == nil {
			filter.EntityID = &id
		}
	}
	if query.UserID != "" {
		id, err := uuid.Parse(query.UserID)
		if err == nil {
			filter.UserID = &id
		}
	}

	// no range means all time
	if query.Range != "" || (query.StartDate != "" && query.EndDate != "") {
		name := query.Range
		if name == "" {
			name = "custom"
		}
		tr, err := ResolveTimeRange(name, query.StartDate, query.EndDate, time.Now())
		if err != nil {
			return nil, 0, err
		}
		filter.From = &tr.Start
		filter.To = &tr.End
	}

	entries, total, err := s.activityRepo.Find(ctx, filter, repositories.FindOptions{
		Offset: query.Offset(),
		Limit:  query.PageSize(),
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toActivityResponse(&entry))
	}
	return responses, total, nil
}

// toActivityResponse maps a model to its response DTO
func toActivityResponse(entry *models.ActivityLog) dto.ActivityLogResponse {
	return dto.ActivityLogResponse{
		ID:         entry.ID,
		Action:     entry.Action,
		EntityType: string(entry.EntityType),
		EntityID:   entry.EntityID,
		UserID:     entry.UserID,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt,
	}
}
