package repositories

import (
	"context"
	"time"

	"tesla-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// Activity Log Repository Implementation
// Append-only audit trail, queried newest first
// (interface defined in interfaces.go)
// ===========================================================================

// activityRepo implementation
type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

// Create appends an activity entry
func (r *activityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Find lists activity entries newest first
func (r *activityRepo) Find(ctx context.Context, filter ActivityFilter, opts FindOptions) ([]models.ActivityLog, int64, error) {
	opts.SetDefaults()

	var entries []models.ActivityLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})

	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("User").
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// CountSeries time-buckets activity entries with date_trunc.
// The interval is validated by the service layer before it reaches SQL.
func (r *activityRepo) CountSeries(ctx context.Context, start, end time.Time, interval string, userID *uuid.UUID) ([]BucketCount, error) {
	var rows []BucketCount
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{}).
		Select("date_trunc(?, created_at) AS bucket, COUNT(*) AS count", interval).
		Where("created_at >= ? AND created_at < ?", start, end)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	err := query.Group("bucket").
		Order("bucket ASC").
		Scan(&rows).Error
	return rows, err
}
