package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tesla-crm/internal/dto"
	apperrors "tesla-crm/internal/errors"
	"tesla-crm/internal/models"
	"tesla-crm/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================================================================
// User Service Implementation
// ===========================================================================

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo repositories.UserRepository
	activity ActivityService
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.UserRepository,
	activity ActivityService,
	logger *zap.Logger,
) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		activity: activity,
		logger:   logger,
	}
}

// Register self-service signup; new accounts get the agent role
func (s *userServiceImpl) Register(ctx context.Context, req dto.RegisterRequest, actor Actor) (*models.User, error) {
	user := &models.User{
		Email:     strings.ToLower(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleAgent,
		Status:    models.StatusActive,
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	}

	return s.create(ctx, user, req.Password, actor, "user.registered")
}

// Create admin-side account creation with explicit role and status
func (s *userServiceImpl) Create(ctx context.Context, req dto.CreateUserRequest, acting *models.User, actor Actor) (*models.User, error) {
	if !acting.IsAdmin() {
		return nil, apperrors.New(apperrors.ErrForbidden, "only admins can create users")
	}

	user := &models.User{
		Email:     strings.ToLower(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleAgent,
		Status:    models.StatusActive,
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	}
	if req.Role != "" {
		user.Role = models.UserRole(req.Role)
	}
	if req.Status != "" {
		user.Status = models.UserStatus(req.Status)
	}

	return s.create(ctx, user, req.Password, actor, "user.created")
}

// create persists a new user after the duplicate-email check
func (s *userServiceImpl) create(ctx context.Context, user *models.User, password string, actor Actor, action string) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, user.Email); err == nil {
		return nil, apperrors.New(apperrors.ErrDuplicateEntry, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.activity.Record(ctx, actor, ActivityRecord{
		Action:     action,
		EntityType: models.EntityUser,
		EntityID:   &user.ID,
		Details: map[string]interface{}{
			"role": string(user.Role),
		},
	})

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

// GetByID finds a user by ID
func (s *userServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// List lists users with pagination
func (s *userServiceImpl) List(ctx context.Context, page dto.Pagination) ([]models.User, int64, error) {
	return s.userRepo.Find(ctx, repositories.FindOptions{
		Offset: page.Offset(),
		Limit:  page.PageSize(),
	})
}

// Update applies a partial update subject to permission checks
func (s *userServiceImpl) Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest, acting *models.User, actor Actor) (*models.User, error) {
	if !acting.CanManage(id.String()) {
		return nil, apperrors.New(apperrors.ErrForbidden, "cannot modify another user's account")
	}

	// role and status changes stay admin-only, even on one's own account
	if (req.Role != nil || req.Status != nil) && !acting.IsAdmin() {
		return nil, apperrors.New(apperrors.ErrForbidden, "only admins can change roles or statuses")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	diff := map[string]interface{}{}

	if req.FirstName != nil && *req.FirstName != user.FirstName {
		diff["first_name"] = map[string]interface{}{"old": user.FirstName, "new": *req.FirstName}
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil && *req.LastName != user.LastName {
		diff["last_name"] = map[string]interface{}{"old": user.LastName, "new": *req.LastName}
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		old := ""
		if user.Phone != nil {
			old = *user.Phone
		}
		if old != *req.Phone {
			diff["phone"] = map[string]interface{}{"old": old, "new": *req.Phone}
			user.Phone = req.Phone
		}
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.Role != nil && models.UserRole(*req.Role) != user.Role {
		diff["role"] = map[string]interface{}{"old": string(user.Role), "new": *req.Role}
		user.Role = models.UserRole(*req.Role)
	}
	if req.Status != nil && models.UserStatus(*req.Status) != user.Status {
		diff["status"] = map[string]interface{}{"old": string(user.Status), "new": *req.Status}
		user.Status = models.UserStatus(*req.Status)
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		diff["password"] = map[string]interface{}{"old": "***", "new": "***"}
	}

	if len(diff) == 0 && req.AvatarURL == nil {
		return user, nil
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("update user failed",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("update user: %w", err)
	}

	if len(diff) > 0 {
		s.activity.Record(ctx, actor, ActivityRecord{
			Action:     "user.updated",
			EntityType: models.EntityUser,
			EntityID:   &user.ID,
			Details:    diff,
		})
	}

	return user, nil
}

// Delete removes an account; admin only
func (s *userServiceImpl) Delete(ctx context.Context, id uuid.UUID, acting *models.User, actor Actor) error {
	if !acting.IsAdmin() {
		return apperrors.New(apperrors.ErrForbidden, "only admins can delete users")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		s.logger.Error("delete user failed",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("delete user: %w", err)
	}

	s.activity.Record(ctx, actor, ActivityRecord{
		Action:     "user.deleted",
		EntityType: models.EntityUser,
		EntityID:   &id,
	})

	return nil
}
