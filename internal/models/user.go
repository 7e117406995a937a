package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ===========================================================================
// User
// System users: agents handling leads, managers, support and admins.
// NOT the prospects themselves (those are Leads).
// ===========================================================================

// UserRole user roles for authorization
type UserRole string

const (
	// RoleAdmin full access, can manage other users
	RoleAdmin UserRole = "admin"

	// RoleAgent works leads and conversations
	RoleAgent UserRole = "agent"

	// RoleManager reads team metrics, assigns leads
	RoleManager UserRole = "manager"

	// RoleSupport read-mostly access for customer support
	RoleSupport UserRole = "support"
)

// UserStatus account lifecycle states
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusSuspended UserStatus = "suspended"
	StatusPending   UserStatus = "pending"
)

// User represents a system user.
type User struct {
	BaseModel

	// Email login identity, unique
	Email string `gorm:"size:255;not null;uniqueIndex" json:"email"`

	// HashedPassword bcrypt hash, never serialized
	HashedPassword string `gorm:"size:255;not null" json:"-"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`

	Phone     *string `gorm:"size:50" json:"phone,omitempty"`
	AvatarURL *string `gorm:"size:512" json:"avatar_url,omitempty"`

	// Role authorization role: admin, agent, manager, support
	Role UserRole `gorm:"size:50;not null;default:'agent';index" json:"role"`

	// Status account state: active, inactive, suspended, pending
	Status UserStatus `gorm:"size:50;not null;default:'pending';index" json:"status"`

	// IsSuperuser bypasses per-account permission checks
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`

	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`

	// RefreshTokenHash SHA256 of the current refresh token, nil when revoked
	RefreshTokenHash *string `gorm:"size:64" json:"-"`

	// Relations
	AssignedLeads []Lead        `gorm:"foreignKey:AssignedTo" json:"assigned_leads,omitempty"`
	Activities    []ActivityLog `gorm:"foreignKey:UserID" json:"activities,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns "First Last".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// SetPassword hashes and stores the password with bcrypt.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashedPassword = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
	return err == nil
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsAdmin reports whether the user has admin privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}

// CanManage reports whether the user may modify the account with the given id.
// Admins manage everyone; everyone manages themselves.
func (u *User) CanManage(targetID string) bool {
	return u.IsAdmin() || u.ID.String() == targetID
}

// StampLastLogin records the login time.
func (u *User) StampLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// ValidRoles is the closed set of accepted roles.
func ValidRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleAgent, RoleManager, RoleSupport}
}

// ValidUserStatuses is the closed set of accepted account states.
func ValidUserStatuses() []UserStatus {
	return []UserStatus{StatusActive, StatusInactive, StatusSuspended, StatusPending}
}
