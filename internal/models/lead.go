package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Lead
// A prospect moving through the sales pipeline. May be assigned to a user
// and own any number of chat conversations.
// ===========================================================================

// LeadStatus pipeline stages
type LeadStatus string

const (
	LeadNew          LeadStatus = "new"
	LeadContacted    LeadStatus = "contacted"
	LeadQualified    LeadStatus = "qualified"
	LeadProposalSent LeadStatus = "proposal_sent"
	LeadNegotiation  LeadStatus = "negotiation"
	LeadWon          LeadStatus = "won"
	LeadLost         LeadStatus = "lost"
	LeadCancelled    LeadStatus = "cancelled"
)

// LeadSource acquisition channels
type LeadSource string

const (
	SourceWebsite     LeadSource = "website"
	SourceSocialMedia LeadSource = "social_media"
	SourceReferral    LeadSource = "referral"
	SourceEmail       LeadSource = "email"
	SourcePhone       LeadSource = "phone"
	SourceChat        LeadSource = "chat"
	SourceOther       LeadSource = "other"
)

// LeadMetadata free-form attributes attached to a lead (campaign tags,
// detected service interest from the chat widget, etc).
type LeadMetadata map[string]interface{}

// Value implements driver.Valuer for JSONB.
func (m LeadMetadata) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(map[string]interface{}{})
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB.
func (m *LeadMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = LeadMetadata{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, m)
}

// Lead represents a prospective customer.
type Lead struct {
	BaseModel

	FirstName string `gorm:"size:100;not null;index" json:"first_name"`
	LastName  string `gorm:"size:100;not null;index" json:"last_name"`

	// Email unique when present; leads captured by the chat widget may
	// arrive with a phone number only
	Email *string `gorm:"size:255;uniqueIndex" json:"email,omitempty"`

	Phone    *string `gorm:"size:50;index" json:"phone,omitempty"`
	Company  *string `gorm:"size:200" json:"company,omitempty"`
	JobTitle *string `gorm:"size:200" json:"job_title,omitempty"`

	// Status pipeline stage, one of LeadStatus
	Status LeadStatus `gorm:"size:50;not null;default:'new';index" json:"status"`

	// Source acquisition channel, one of LeadSource
	Source LeadSource `gorm:"size:50;not null;default:'website';index" json:"source"`

	// AssignedTo owning agent (nullable)
	AssignedTo *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to,omitempty"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	// ConvertedAt set when the lead transitions to won
	ConvertedAt *time.Time `json:"converted_at,omitempty"`

	Metadata LeadMetadata `gorm:"type:jsonb;default:'{}'" json:"metadata"`

	// Relations
	AssignedUser  *User          `gorm:"foreignKey:AssignedTo" json:"assigned_user,omitempty"`
	Conversations []Conversation `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"conversations,omitempty"`
}

func (Lead) TableName() string {
	return "leads"
}

// FullName returns "First Last".
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// IsConverted reports whether the lead closed as won.
func (l *Lead) IsConverted() bool {
	return l.Status == LeadWon
}

// Convert marks the lead won and stamps the conversion time.
func (l *Lead) Convert() {
	l.Status = LeadWon
	now := time.Now().UTC()
	l.ConvertedAt = &now
}

// ValidLeadStatuses is the closed set of pipeline stages.
func ValidLeadStatuses() []LeadStatus {
	return []LeadStatus{
		LeadNew, LeadContacted, LeadQualified, LeadProposalSent,
		LeadNegotiation, LeadWon, LeadLost, LeadCancelled,
	}
}

// ValidLeadSources is the closed set of acquisition channels.
func ValidLeadSources() []LeadSource {
	return []LeadSource{
		SourceWebsite, SourceSocialMedia, SourceReferral,
		SourceEmail, SourcePhone, SourceChat, SourceOther,
	}
}
