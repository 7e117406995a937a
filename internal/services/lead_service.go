package services

import (
	"context"

	"tesla-crm/internal/dto"
	"tesla-crm/internal/models"

	"github.com/google/uuid"
)

// ===========================================================================
// Lead Service Interface
// Pipeline management plus the aggregate stats shown on the dashboard
// ===========================================================================

// LeadService interface for lead business logic
type LeadService interface {
	// Create creates a lead. When the email is already known the existing
	// lead is updated instead; the bool reports whether a new row was made.
	Create(ctx context.Context, req dto.CreateLeadRequest, actor Actor) (*models.Lead, bool, error)

	// GetByID finds a lead by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)

	// List lists leads with filters and pagination
	List(ctx context.Context, query dto.ListLeadsQuery) ([]models.Lead, int64, error)

	// Update applies a partial update; unchanged fields produce no audit diff
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest, actor Actor) (*models.Lead, error)

	// Delete removes a lead and cascades to its conversations and messages
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error

	// Convert marks a lead won and stamps the conversion time.
	// Converting an already-won lead is a no-op.
	Convert(ctx context.Context, id uuid.UUID, actor Actor) (*models.Lead, error)

	// Stats returns aggregate lead counters. The optional date bounds scope
	// the per-source breakdown only.
	Stats(ctx context.Context, query dto.LeadStatsQuery) (*dto.LeadStatsResponse, error)
}
