package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// ===========================================================================
// ActivityLog
// Append-only audit trail. Records are written once on significant actions
// ("lead.created", "user.logged_in"...) and never mutated or deleted by
// normal flows.
// ===========================================================================

// EntityType names the kinds of entities an activity may reference.
// Closed set so the audit trail cannot point at unknown entity kinds.
type EntityType string

const (
	EntityLead         EntityType = "lead"
	EntityUser         EntityType = "user"
	EntityConversation EntityType = "conversation"
	EntityMessage      EntityType = "message"
)

// IsValid reports whether the entity type is one of the known kinds.
func (e EntityType) IsValid() bool {
	switch e {
	case EntityLead, EntityUser, EntityConversation, EntityMessage:
		return true
	}
	return false
}

// ActivityDetails structured payload stored with the log entry.
type ActivityDetails map[string]interface{}

// Value implements driver.Valuer for JSONB.
func (d ActivityDetails) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal(map[string]interface{}{})
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB.
func (d *ActivityDetails) Scan(value interface{}) error {
	if value == nil {
		*d = ActivityDetails{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, d)
}

// ActivityLog represents one audit record.
type ActivityLog struct {
	BaseModel

	// Action namespaced action name, e.g. "lead.created"
	Action string `gorm:"size:100;not null;index:ix_activity_logs_action_time" json:"action"`

	// EntityType kind of entity this record is about
	EntityType EntityType `gorm:"size:50;index:ix_activity_logs_entity" json:"entity_type,omitempty"`

	// EntityID id of the referenced entity
	EntityID *uuid.UUID `gorm:"type:uuid;index:ix_activity_logs_entity" json:"entity_id,omitempty"`

	// UserID user who performed the action, if any
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`

	// IPAddress client address captured from the request
	IPAddress *string `gorm:"size:50" json:"ip_address,omitempty"`

	// UserAgent client user agent captured from the request
	UserAgent *string `gorm:"type:text" json:"user_agent,omitempty"`

	// Details structured context for the action
	Details ActivityDetails `gorm:"type:jsonb" json:"details"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
