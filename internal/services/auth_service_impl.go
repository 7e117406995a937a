package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"tesla-crm/internal/auth"
	apperrors "tesla-crm/internal/errors"
	"tesla-crm/internal/models"
	"tesla-crm/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================================================================
// Auth Service Implementation
// ===========================================================================

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.UserRepository
	jwtService *auth.JWTService
	activity   ActivityService
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	jwtService *auth.JWTService,
	activity ActivityService,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		activity:   activity,
		logger:     logger,
	}
}

// hashToken creates SHA256 hash of token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Login authenticates user with email and password
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		s.logger.Error("find user by email failed",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("generate token failed",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("generate token: %w", err)
	}

	// Hash and store the refresh token for rotation checks
	tokenHash := hashToken(tokens.RefreshToken)
	user.RefreshTokenHash = &tokenHash
	user.StampLastLogin()

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("save refresh token hash failed",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		// login still succeeds, the refresh token just won't validate
	}

	s.activity.Record(ctx, Actor{UserID: &user.ID}, ActivityRecord{
		Action:     "user.login",
		EntityType: models.EntityUser,
		EntityID:   &user.ID,
	})

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return &LoginResult{
		User: user,
		Tokens: &TokenPair{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresIn:    int64(s.jwtService.AccessDuration().Seconds()),
		},
	}, nil
}

// RefreshTokens generates new token pair using refresh token
func (s *authServiceImpl) RefreshTokens(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}

	// Validate refresh token hash against DB
	tokenHash := hashToken(refreshToken)
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != tokenHash {
		s.logger.Warn("refresh token hash mismatch - token possibly revoked",
			zap.String("user_id", user.ID.String()),
		)
		return nil, apperrors.ErrInvalidToken
	}

	tokens, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("generate token failed",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("generate token: %w", err)
	}

	// Token rotation: store the new hash
	newTokenHash := hashToken(tokens.RefreshToken)
	user.RefreshTokenHash = &newTokenHash

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("update refresh token hash failed",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
	}

	return &LoginResult{
		User: user,
		Tokens: &TokenPair{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresIn:    int64(s.jwtService.AccessDuration().Seconds()),
		},
	}, nil
}

// Logout revokes the stored refresh token
func (s *authServiceImpl) Logout(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return apperrors.ErrNotFound
	}

	user.RefreshTokenHash = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.logger.Info("refresh token revoked",
		zap.String("user_id", userID.String()),
	)

	return nil
}

// ValidateAccessToken validates access token and returns claims
func (s *authServiceImpl) ValidateAccessToken(token string) (*Claims, error) {
	jwtClaims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	return &Claims{
		UserID: jwtClaims.UserID,
		Email:  jwtClaims.Email,
		Role:   jwtClaims.Role,
	}, nil
}

// GetUserByID gets user by ID
func (s *authServiceImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

// ChangePassword sets a new password after verifying the current one
func (s *authServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("find user by id: %w", err)
	}

	if !user.CheckPassword(currentPassword) {
		return apperrors.New(apperrors.ErrInvalidCredentials, "current password is incorrect")
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// other sessions must log in again
	user.RefreshTokenHash = nil

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("save password: %w", err)
	}

	s.activity.Record(ctx, Actor{UserID: &user.ID}, ActivityRecord{
		Action:     "user.password_changed",
		EntityType: models.EntityUser,
		EntityID:   &user.ID,
	})

	s.logger.Info("password changed",
		zap.String("user_id", user.ID.String()),
	)

	return nil
}

// RequestPasswordReset starts a reset flow. Always succeeds so account
// existence is not leaked.
func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	// TODO: issue reset token and send mail once an email provider is wired
	s.logger.Info("password reset requested",
		zap.String("email", email),
	)
	return nil
}

// ConfirmPasswordReset completes a reset flow
func (s *authServiceImpl) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return apperrors.New(apperrors.ErrNotImplemented, "password reset confirmation is not available yet")
}

// VerifyEmail confirms an email address
func (s *authServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	return apperrors.New(apperrors.ErrNotImplemented, "email verification is not available yet")
}
