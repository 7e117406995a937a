package services

import (
	"context"

	"tesla-crm/internal/dto"
	"tesla-crm/internal/models"

	"github.com/google/uuid"
)

// ===========================================================================
// User Service Interface
// Account management. Non-admin users may only touch their own account
// and may never change roles or statuses.
// ===========================================================================

// UserService interface for user business logic
type UserService interface {
	// Register self-service signup; new accounts get the agent role
	Register(ctx context.Context, req dto.RegisterRequest, actor Actor) (*models.User, error)

	// Create admin-side account creation with explicit role and status
	Create(ctx context.Context, req dto.CreateUserRequest, acting *models.User, actor Actor) (*models.User, error)

	// GetByID finds a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// List lists users with pagination
	List(ctx context.Context, page dto.Pagination) ([]models.User, int64, error)

	// Update applies a partial update subject to permission checks
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest, acting *models.User, actor Actor) (*models.User, error)

	// Delete removes an account; admin only
	Delete(ctx context.Context, id uuid.UUID, acting *models.User, actor Actor) error
}
