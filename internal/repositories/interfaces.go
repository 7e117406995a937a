package repositories

import (
	"context"
	"time"

	"tesla-crm/internal/models"

	"github.com/google/uuid"
)

// ===========================================================================
// Lead Repository Interface
// CRUD plus the aggregate queries behind dashboard and metrics
// ===========================================================================

// LeadFilter filter conditions for lead listing
type LeadFilter struct {
	// Status filter by lead status, empty means all
	Status string

	// Source filter by lead source, empty means all
	Source string

	// AssignedTo filter by assignee
	AssignedTo *uuid.UUID

	// Search case-insensitive substring over name, email, phone, company
	Search string
}

// BucketCount one time bucket of an aggregate series
type BucketCount struct {
	Bucket time.Time
	Count  int64
}

// LeaderboardRow per-agent aggregate for the sales leaderboard
type LeaderboardRow struct {
	UserID            uuid.UUID
	FirstName         string
	LastName          string
	LeadCount         int64
	ConvertedCount    int64
	ContactsMade      int64
	MeetingsScheduled int64
}

// SourceStat per-source lead totals
type SourceStat struct {
	Source    string
	Total     int64
	Converted int64
}

// LeadRepository interface for lead data access
type LeadRepository interface {
	// FindByID finds a lead by ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)

	// FindByEmail finds a lead by email
	FindByEmail(ctx context.Context, email string) (*models.Lead, error)

	// Find lists leads with filters and pagination
	Find(ctx context.Context, filter LeadFilter, opts FindOptions) ([]models.Lead, int64, error)

	// Create creates a new lead
	Create(ctx context.Context, lead *models.Lead) error

	// Update updates a lead
	Update(ctx context.Context, lead *models.Lead) error

	// Delete soft-deletes a lead, its conversations, and their messages
	Delete(ctx context.Context, id uuid.UUID) error

	// CountCreatedBetween counts leads created in [start, end), optionally
	// scoped to an assignee
	CountCreatedBetween(ctx context.Context, start, end time.Time, assignedTo *uuid.UUID) (int64, error)

	// CountConvertedBetween counts leads converted in [start, end), optionally
	// scoped to an assignee
	CountConvertedBetween(ctx context.Context, start, end time.Time, assignedTo *uuid.UUID) (int64, error)

	// CountsByStatus returns lead counts grouped by status
	CountsByStatus(ctx context.Context) (map[string]int64, error)

	// SourceStats returns per-source lead and conversion totals, optionally
	// bounded by created_at; nil bounds mean unbounded
	SourceStats(ctx context.Context, from, to *time.Time) ([]SourceStat, error)

	// CountUnassigned counts leads with no assignee
	CountUnassigned(ctx context.Context) (int64, error)

	// CreatedSeries buckets lead creations by interval over [start, end),
	// optionally scoped to an assignee
	CreatedSeries(ctx context.Context, start, end time.Time, interval string, assignedTo *uuid.UUID) ([]BucketCount, error)

	// ConvertedSeries buckets lead conversions by interval over [start, end),
	// optionally scoped to an assignee
	ConvertedSeries(ctx context.Context, start, end time.Time, interval string, assignedTo *uuid.UUID) ([]BucketCount, error)

	// Leaderboard aggregates per-user lead, conversion, and activity counts
	// over [start, end), ranked by conversions then lead count; users with
	// no leads in the period appear with zero counts
	Leaderboard(ctx context.Context, start, end time.Time) ([]LeaderboardRow, error)
}

// ===========================================================================
// User Repository Interface
// ===========================================================================

// UserRepository interface for user data access
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Find lists users with pagination
	Find(ctx context.Context, opts FindOptions) ([]models.User, int64, error)

	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// Update updates a user
	Update(ctx context.Context, user *models.User) error

	// Delete soft-deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts all users
	Count(ctx context.Context) (int64, error)

	// CountActive counts users whose status is active
	CountActive(ctx context.Context) (int64, error)
}

// ===========================================================================
// Conversation Repository Interface
// ===========================================================================

// ConversationFilter filter conditions for conversation listing
type ConversationFilter struct {
	// Status filter by status, empty means all
	Status string

	// LeadID filter by bound lead
	LeadID *uuid.UUID
}

// ConversationRepository interface for conversation data access
type ConversationRepository interface {
	// FindByID finds a conversation by ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)

	// Find lists conversations with filters and pagination
	Find(ctx context.Context, filter ConversationFilter, opts FindOptions) ([]models.Conversation, int64, error)

	// Create creates a new conversation
	Create(ctx context.Context, conversation *models.Conversation) error

	// Update updates a conversation
	Update(ctx context.Context, conversation *models.Conversation) error

	// Delete soft-deletes a conversation and its messages
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts all conversations, or those with the given status
	Count(ctx context.Context, status string) (int64, error)

	// CountCreatedBetween counts conversations created in [start, end)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

// ===========================================================================
// Message Repository Interface
// ===========================================================================

// MessageRepository interface for message data access
type MessageRepository interface {
	// FindByID finds a message by ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error)

	// FindByConversation lists a conversation's messages oldest first
	FindByConversation(ctx context.Context, conversationID uuid.UUID, opts FindOptions) ([]models.Message, int64, error)

	// Create creates a new message
	Create(ctx context.Context, message *models.Message) error

	// Update updates a message
	Update(ctx context.Context, message *models.Message) error

	// Count counts all messages
	Count(ctx context.Context) (int64, error)

	// CountCreatedBetween counts messages created in [start, end)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

// ===========================================================================
// Activity Log Repository Interface
// ===========================================================================

// ActivityFilter filter conditions for the audit trail
type ActivityFilter struct {
	// EntityType filter by entity type, empty means all
	EntityType string

	// EntityID filter by entity
	EntityID *uuid.UUID

	// UserID filter by acting user
	UserID *uuid.UUID

	// Action filter by action name, empty means all
	Action string

	// From lower created_at bound (inclusive), nil means unbounded
	From *time.Time

	// To upper created_at bound (exclusive), nil means unbounded
	To *time.Time
}

// ActivityRepository interface for audit trail data access
type ActivityRepository interface {
	// Create appends an activity entry
	Create(ctx context.Context, entry *models.ActivityLog) error

	// Find lists activity entries newest first
	Find(ctx context.Context, filter ActivityFilter, opts FindOptions) ([]models.ActivityLog, int64, error)

	// CountSeries buckets activity entries by interval over [start, end),
	// optionally scoped to an acting user
	CountSeries(ctx context.Context, start, end time.Time, interval string, userID *uuid.UUID) ([]BucketCount, error)
}

// ===========================================================================
// Knowledge Base Repository Interface
// ===========================================================================

// KBRepository interface for knowledge base data access
type KBRepository interface {
	// FindAll returns all articles
	FindAll(ctx context.Context) ([]models.KBArticle, error)

	// FindBySlug finds an article by slug
	FindBySlug(ctx context.Context, slug string) (*models.KBArticle, error)

	// Upsert creates or updates an article by slug
	Upsert(ctx context.Context, article *models.KBArticle) error
}
