package services

import (
	"context"
	"testing"

	"tesla-crm/internal/dto"
	apperrors "tesla-crm/internal/errors"
	"tesla-crm/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newUserService(userRepo *MockUserRepository, activityRepo *MockActivityRepository) UserService {
	logger := zap.NewNop()
	return NewUserService(userRepo, NewActivityService(activityRepo, logger), logger)
}

func adminUser() *models.User {
	u := &models.User{Role: models.RoleAdmin, Status: models.StatusActive}
	u.ID = uuid.New()
	return u
}

func agentUser() *models.User {
	u := &models.User{Role: models.RoleAgent, Status: models.StatusActive}
	u.ID = uuid.New()
	return u
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	activityRepo := new(MockActivityRepository)

	userRepo.On("FindByEmail", ctx, "ana@example.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	activityRepo.On("Create", ctx, mock.AnythingOfType("*models.ActivityLog")).Return(nil)

	svc := newUserService(userRepo, activityRepo)

	user, err := svc.Register(ctx, dto.RegisterRequest{
		Email:     "Ana@Example.com",
		Password:  "super-secreta",
		FirstName: "Ana",
		LastName:  "Vargas",
	}, Actor{})

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, models.RoleAgent, user.Role)
	assert.NotEqual(t, "super-secreta", user.HashedPassword)
	assert.True(t, user.CheckPassword("super-secreta"))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	activityRepo := new(MockActivityRepository)

	existing := agentUser()
	userRepo.On("FindByEmail", ctx, "ana@example.com").Return(existing, nil)

	svc := newUserService(userRepo, activityRepo)

	_, err := svc.Register(ctx, dto.RegisterRequest{
		Email:     "ana@example.com",
		Password:  "super-secreta",
		FirstName: "Ana",
		LastName:  "Vargas",
	}, Actor{})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	activityRepo := new(MockActivityRepository)

	svc := newUserService(userRepo, activityRepo)

	_, err := svc.Create(ctx, dto.CreateUserRequest{
		Email:     "nuevo@example.com",
		Password:  "super-secreta",
		FirstName: "Luis",
		LastName:  "Paredes",
	}, agentUser(), Actor{})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdateOtherUserForbiddenForAgents(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	activityRepo := new(MockActivityRepository)

	svc := newUserService(userRepo, activityRepo)

	target := agentUser()
	_, err := svc.Update(ctx, target.ID, dto.UpdateUserRequest{
		FirstName: strPtr("Otro"),
	}, agentUser(), Actor{})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateSelfAllowed(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	activityRepo := new(MockActivityRepository)

	acting := agentUser()
	userRepo.On("FindByID", ctx, acting.ID).Return(acting, nil)
	userRepo.On("Update", ctx, acting).Return(nil)
	activityRepo.On("Create", ctx, mock.AnythingOfType("*models.ActivityLog")).Return(nil)

	svc := newUserService(userRepo, activityRepo)

	user, err := svc.Update(ctx, acting.ID, dto.UpdateUserRequest{
		FirstName: strPtr("Renombrado"),
	}, acting, Actor{})

	require.NoError(t, err)
	assert.Equal(t, "Renombrado", user.FirstName)
}

func TestSelfRoleChangeForbidden(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	activityRepo := new(MockActivityRepository)

	acting := agentUser()

	svc := newUserService(userRepo, activityRepo)

	_, err := svc.Update(ctx, acting.ID, dto.UpdateUserRequest{
		Role: strPtr("admin"),
	}, acting, Actor{})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAdminCanChangeRole(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	activityRepo := new(MockActivityRepository)

	target := agentUser()
	userRepo.On("FindByID", ctx, target.ID).Return(target, nil)
	userRepo.On("Update", ctx, target).Return(nil)
	activityRepo.On("Create", ctx, mock.AnythingOfType("*models.ActivityLog")).Return(nil)

	svc := newUserService(userRepo, activityRepo)

	user, err := svc.Update(ctx, target.ID, dto.UpdateUserRequest{
		Role: strPtr("manager"),
	}, adminUser(), Actor{})

	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	activityRepo := new(MockActivityRepository)

	svc := newUserService(userRepo, activityRepo)

	err := svc.Delete(ctx, uuid.New(), agentUser(), Actor{})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
