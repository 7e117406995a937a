package services

import (
	"context"

	"tesla-crm/internal/models"

	"github.com/google/uuid"
)

// ===========================================================================
// Auth Service Interface
// ===========================================================================

// TokenPair issued tokens with the access token lifetime in seconds
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// LoginResult user plus freshly issued tokens
type LoginResult struct {
	User   *models.User
	Tokens *TokenPair
}

// Claims identity extracted from a validated token
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   models.UserRole
}

// AuthService interface for authentication
type AuthService interface {
	// Login authenticates with email and password; only active accounts pass
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// RefreshTokens rotates the token pair using a valid refresh token
	RefreshTokens(ctx context.Context, refreshToken string) (*LoginResult, error)

	// Logout revokes the stored refresh token
	Logout(ctx context.Context, userID uuid.UUID) error

	// ValidateAccessToken validates an access token and returns claims
	ValidateAccessToken(token string) (*Claims, error)

	// GetUserByID loads the user behind a token
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// ChangePassword sets a new password after verifying the current one.
	// All refresh tokens are revoked so other sessions must log in again.
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error

	// RequestPasswordReset starts a reset flow. Always succeeds so account
	// existence is not leaked; actual mail delivery is not implemented.
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset completes a reset flow. Not implemented.
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error

	// VerifyEmail confirms an email address. Not implemented.
	VerifyEmail(ctx context.Context, token string) error
}
