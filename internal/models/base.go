package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// BaseModel
// Shared columns for every table: UUID primary key, timestamps, soft delete
// ===========================================================================

// BaseModel contains the fields common to all models.
type BaseModel struct {
	// ID is a UUID primary key, generated if not set
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`

	// CreatedAt time the record was inserted
	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`

	// UpdatedAt time of the last update
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	// DeletedAt soft delete marker
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate generates a UUID when the caller did not set one.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
