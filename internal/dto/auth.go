package dto

import (
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Auth DTOs
// ===========================================================================

// RegisterRequest new account payload
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
}

// LoginRequest credentials payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest refresh payload; token may also come from a cookie
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// PasswordResetRequest starts a password reset flow
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirm completes a password reset flow
type PasswordResetConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// VerifyEmailRequest email verification payload
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// TokenPair access + refresh tokens returned on login/refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginResponse tokens plus the authenticated user
type LoginResponse struct {
	TokenPair
	User UserResponse `json:"user"`
}

// ===========================================================================
// User DTOs
// ===========================================================================

// CreateUserRequest admin-side user creation
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
	Role      string `json:"role" binding:"omitempty,oneof=admin agent manager support"`
	Status    string `json:"status" binding:"omitempty,oneof=active inactive suspended pending"`
}

// UpdateUserRequest partial user update; nil fields stay unchanged
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin agent manager support"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive suspended pending"`
	Password  *string `json:"password" binding:"omitempty,min=8"`
}

// UserResponse user payload without sensitive fields
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Phone       *string    `json:"phone,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	IsSuperuser bool       `json:"is_superuser"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
