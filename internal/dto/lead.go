package dto

import (
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Lead DTOs
// ===========================================================================

// CreateLeadRequest new lead payload. Email is optional but when present
// and already known, the existing lead is updated instead.
type CreateLeadRequest struct {
	FirstName  string                 `json:"first_name" binding:"required,min=1,max=100"`
	LastName   string                 `json:"last_name" binding:"omitempty,max=100"`
	Email      *string                `json:"email" binding:"omitempty,email"`
	Phone      *string                `json:"phone" binding:"omitempty,max=30"`
	Company    *string                `json:"company" binding:"omitempty,max=200"`
	JobTitle   *string                `json:"job_title" binding:"omitempty,max=150"`
	Status     string                 `json:"status" binding:"omitempty,oneof=new contacted qualified proposal_sent negotiation won lost cancelled"`
	Source     string                 `json:"source" binding:"omitempty,oneof=website social_media referral email phone chat other"`
	AssignedTo *uuid.UUID             `json:"assigned_to"`
	Notes      *string                `json:"notes"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// UpdateLeadRequest partial lead update; nil fields stay unchanged
type UpdateLeadRequest struct {
	FirstName  *string                `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName   *string                `json:"last_name" binding:"omitempty,max=100"`
	Email      *string                `json:"email" binding:"omitempty,email"`
	Phone      *string                `json:"phone" binding:"omitempty,max=30"`
	Company    *string                `json:"company" binding:"omitempty,max=200"`
	JobTitle   *string                `json:"job_title" binding:"omitempty,max=150"`
	Status     *string                `json:"status" binding:"omitempty,oneof=new contacted qualified proposal_sent negotiation won lost cancelled"`
	Source     *string                `json:"source" binding:"omitempty,oneof=website social_media referral email phone chat other"`
	AssignedTo *uuid.UUID             `json:"assigned_to"`
	Notes      *string                `json:"notes"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// ListLeadsQuery filters for the lead list endpoint
type ListLeadsQuery struct {
	Pagination
	Status     string `form:"status" binding:"omitempty,oneof=new contacted qualified proposal_sent negotiation won lost cancelled"`
	Source     string `form:"source" binding:"omitempty,oneof=website social_media referral email phone chat other"`
	AssignedTo string `form:"assigned_to" binding:"omitempty,uuid"`
	Search     string `form:"search" binding:"omitempty,max=200"`
}

// LeadResponse lead payload
type LeadResponse struct {
	ID          uuid.UUID              `json:"id"`
	FirstName   string                 `json:"first_name"`
	LastName    string                 `json:"last_name"`
	FullName    string                 `json:"full_name"`
	Email       *string                `json:"email,omitempty"`
	Phone       *string                `json:"phone,omitempty"`
	Company     *string                `json:"company,omitempty"`
	JobTitle    *string                `json:"job_title,omitempty"`
	Status      string                 `json:"status"`
	Source      string                 `json:"source"`
	AssignedTo  *uuid.UUID             `json:"assigned_to,omitempty"`
	Notes       *string                `json:"notes,omitempty"`
	ConvertedAt *time.Time             `json:"converted_at,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// LeadStatsQuery optional created_at bounds for the source breakdown.
// EndDate is inclusive.
type LeadStatsQuery struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// SourceStats per-source lead totals
type SourceStats struct {
	Source         string  `json:"source"`
	TotalLeads     int64   `json:"total_leads"`
	ConvertedLeads int64   `json:"converted_leads"`
	ConversionRate float64 `json:"conversion_rate"`
}

// LeadStatsResponse aggregate counters for the dashboard
type LeadStatsResponse struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	BySource       []SourceStats    `json:"by_source"`
	Converted      int64            `json:"converted"`
	ConversionRate float64          `json:"conversion_rate"`
	Unassigned     int64            `json:"unassigned"`
}
