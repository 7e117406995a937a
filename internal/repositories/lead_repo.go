package repositories

import (
	"context"
	"time"

	"tesla-crm/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// Lead Repository Implementation
// Database operations for the Lead model
// (interface defined in interfaces.go)
// ===========================================================================

// leadRepo implementation
type leadRepo struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepo{db: db}
}

// FindByID finds a lead by ID
func (r *leadRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).
		Preload("AssignedUser").
		First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// FindByEmail finds a lead by email
func (r *leadRepo) FindByEmail(ctx context.Context, email string) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).
		First(&lead, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// Find lists leads with filters and pagination
func (r *leadRepo) Find(ctx context.Context, filter LeadFilter, opts FindOptions) ([]models.Lead, int64, error) {
	opts.SetDefaults()

	var leads []models.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Lead{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR company ILIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order(opts.GetOrderClause()).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&leads).Error; err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

// Create creates a new lead
func (r *leadRepo) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// Update updates a lead
func (r *leadRepo) Update(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

// Delete soft-deletes a lead, its conversations, and their messages.
// Soft deletes never trigger the database cascade, so each level is
// deleted explicitly inside one transaction.
func (r *leadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conversationIDs := tx.Model(&models.Conversation{}).
			Select("id").
			Where("lead_id = ?", id)
		if err := tx.Where("conversation_id IN (?)", conversationIDs).
			Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lead_id = ?", id).Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Lead{}, "id = ?", id).Error
	})
}

// CountCreatedBetween counts leads created in [start, end)
func (r *leadRepo) CountCreatedBetween(ctx context.Context, start, end time.Time, assignedTo *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Lead{}).
		Where("created_at >= ? AND created_at < ?", start, end)
	if assignedTo != nil {
		query = query.Where("assigned_to = ?", *assignedTo)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountConvertedBetween counts leads converted in [start, end)
func (r *leadRepo) CountConvertedBetween(ctx context.Context, start, end time.Time, assignedTo *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Lead{}).
		Where("converted_at >= ? AND converted_at < ?", start, end)
	if assignedTo != nil {
		query = query.Where("assigned_to = ?", *assignedTo)
	}
	err := query.Count(&count).Error
	return count, err
}

// groupCount row shape for GROUP BY count queries
type groupCount struct {
	Key   string
	Count int64
}

// CountsByStatus returns lead counts grouped by status
func (r *leadRepo) CountsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []groupCount
	if err := r.db.WithContext(ctx).Model(&models.Lead{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// SourceStats returns per-source lead and conversion totals, most leads first
func (r *leadRepo) SourceStats(ctx context.Context, from, to *time.Time) ([]SourceStat, error) {
	var rows []SourceStat
	query := r.db.WithContext(ctx).Model(&models.Lead{}).
		Select(`source,
			COUNT(*) AS total,
			COUNT(converted_at) AS converted`)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at < ?", *to)
	}
	err := query.Group("source").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

// CountUnassigned counts leads with no assignee
func (r *leadRepo) CountUnassigned(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Lead{}).
		Where("assigned_to IS NULL").
		Count(&count).Error
	return count, err
}

// CreatedSeries buckets lead creations by interval over [start, end)
func (r *leadRepo) CreatedSeries(ctx context.Context, start, end time.Time, interval string, assignedTo *uuid.UUID) ([]BucketCount, error) {
	return r.series(ctx, "created_at", start, end, interval, assignedTo)
}

// ConvertedSeries buckets lead conversions by interval over [start, end)
func (r *leadRepo) ConvertedSeries(ctx context.Context, start, end time.Time, interval string, assignedTo *uuid.UUID) ([]BucketCount, error) {
	return r.series(ctx, "converted_at", start, end, interval, assignedTo)
}

// series time-buckets a timestamp column with date_trunc.
// The interval is validated by the service layer before it reaches SQL.
func (r *leadRepo) series(ctx context.Context, column string, start, end time.Time, interval string, assignedTo *uuid.UUID) ([]BucketCount, error) {
	var rows []BucketCount
	query := r.db.WithContext(ctx).Model(&models.Lead{}).
		Select("date_trunc(?, "+column+") AS bucket, COUNT(*) AS count", interval).
		Where(column+" >= ? AND "+column+" < ?", start, end)
	if assignedTo != nil {
		query = query.Where("assigned_to = ?", *assignedTo)
	}
	err := query.Group("bucket").
		Order("bucket ASC").
		Scan(&rows).Error
	return rows, err
}

// Leaderboard aggregates per-user lead, conversion, and activity counts.
// Anchored on users with left joins so agents without leads in the
// period still appear with zero counts. Distinct counts keep the two
// joins from multiplying each other.
func (r *leadRepo) Leaderboard(ctx context.Context, start, end time.Time) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.db.WithContext(ctx).Table("users").
		Select(`users.id AS user_id,
			users.first_name,
			users.last_name,
			COUNT(DISTINCT leads.id) AS lead_count,
			COUNT(DISTINCT leads.id) FILTER (WHERE leads.converted_at IS NOT NULL) AS converted_count,
			COUNT(DISTINCT activity_logs.id) FILTER (WHERE activity_logs.action = 'lead.contacted') AS contacts_made,
			COUNT(DISTINCT activity_logs.id) FILTER (WHERE activity_logs.action = 'meeting.scheduled') AS meetings_scheduled`).
		Joins(`LEFT JOIN leads ON leads.assigned_to = users.id
			AND leads.deleted_at IS NULL
			AND leads.created_at >= ? AND leads.created_at < ?`, start, end).
		Joins(`LEFT JOIN activity_logs ON activity_logs.user_id = users.id
			AND activity_logs.created_at >= ? AND activity_logs.created_at < ?`, start, end).
		Where("users.deleted_at IS NULL").
		Group("users.id, users.first_name, users.last_name").
		Order("converted_count DESC, lead_count DESC").
		Scan(&rows).Error
	return rows, err
}
