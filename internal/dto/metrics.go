package dto

import (
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Metrics DTOs
// ===========================================================================

// MetricsQuery time range selector shared by metrics endpoints.
// StartDate/EndDate are only honored when Range is "custom". UserID
// scopes the lead numbers to one assignee.
type MetricsQuery struct {
	Range     string `form:"range,default=this_month" binding:"omitempty,oneof=today yesterday this_week last_week this_month last_month this_quarter last_quarter this_year last_year custom"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	UserID    string `form:"user_id" binding:"omitempty,uuid"`
}

// SeriesQuery adds a bucket interval to the time range selector
type SeriesQuery struct {
	MetricsQuery
	Interval string `form:"interval,default=day" binding:"omitempty,oneof=day week month"`
}

// SeriesPoint one bucket of a time series
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SeriesResponse a named time series over a resolved range
type SeriesResponse struct {
	Metric    string        `json:"metric"`
	Interval  string        `json:"interval"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Points    []SeriesPoint `json:"points"`
}

// OverviewResponse headline metrics for a resolved range. Trend compares
// lead volume against the equally long period immediately before the range,
// as a percent change; zero when the previous period had no leads.
type OverviewResponse struct {
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalLeads     int64     `json:"total_leads"`
	ConvertedLeads int64     `json:"converted_leads"`
	ConversionRate float64   `json:"conversion_rate"`
	Conversations  int64     `json:"conversations"`
	Messages       int64     `json:"messages"`
	Trend          float64   `json:"trend"`
}

// LeaderboardEntry one agent's row in the sales leaderboard
type LeaderboardEntry struct {
	UserID            uuid.UUID `json:"user_id"`
	FullName          string    `json:"full_name"`
	LeadCount         int64     `json:"lead_count"`
	ConvertedCount    int64     `json:"converted_count"`
	ConversionRate    float64   `json:"conversion_rate"`
	ContactsMade      int64     `json:"contacts_made"`
	MeetingsScheduled int64     `json:"meetings_scheduled"`
}

// LeaderboardResponse ranked agents for a resolved range
type LeaderboardResponse struct {
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Entries   []LeaderboardEntry `json:"entries"`
}

// DashboardStatsResponse counters for the dashboard landing page.
// NewLeads counts leads created in the last seven days; ActiveUsers counts
// accounts whose status is active.
type DashboardStatsResponse struct {
	TotalLeads          int64                 `json:"total_leads"`
	NewLeads            int64                 `json:"new_leads"`
	LeadsByStatus       map[string]int64      `json:"leads_by_status"`
	ConvertedLeads      int64                 `json:"converted_leads"`
	ConversionRate      float64               `json:"conversion_rate"`
	ActiveConversations int64                 `json:"active_conversations"`
	TotalConversations  int64                 `json:"total_conversations"`
	TotalMessages       int64                 `json:"total_messages"`
	TotalUsers          int64                 `json:"total_users"`
	ActiveUsers         int64                 `json:"active_users"`
	LeadsThisMonth      int64                 `json:"leads_this_month"`
	LeadsToday          int64                 `json:"leads_today"`
	RecentActivities    []ActivityLogResponse `json:"recent_activities"`
}

// ActivityLogResponse one audit entry
type ActivityLogResponse struct {
	ID         uuid.UUID              `json:"id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uuid.UUID             `json:"entity_id,omitempty"`
	UserID     *uuid.UUID             `json:"user_id,omitempty"`
	IPAddress  *string                `json:"ip_address,omitempty"`
	UserAgent  *string                `json:"user_agent,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ListActivityQuery filters for the activity log endpoint. Unlike the
// metrics endpoints the range is optional: no range means all time.
type ListActivityQuery struct {
	Pagination
	EntityType string `form:"entity_type" binding:"omitempty,oneof=lead user conversation message"`
	EntityID   string `form:"entity_id" binding:"omitempty,uuid"`
	UserID     string `form:"user_id" binding:"omitempty,uuid"`
	Action     string `form:"action" binding:"omitempty,max=100"`
	Range      string `form:"range" binding:"omitempty,oneof=today yesterday this_week last_week this_month last_month this_quarter last_quarter this_year last_year custom"`
	StartDate  string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}
