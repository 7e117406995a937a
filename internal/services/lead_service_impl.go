package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tesla-crm/internal/dto"
	apperrors "tesla-crm/internal/errors"
	"tesla-crm/internal/models"
	"tesla-crm/internal/notify"
	"tesla-crm/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================================================================
// Lead Service Implementation
// ===========================================================================

// leadServiceImpl implements LeadService
type leadServiceImpl struct {
	leadRepo repositories.LeadRepository
	activity ActivityService
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(
	leadRepo repositories.LeadRepository,
	activity ActivityService,
	notifier notify.Notifier,
	logger *zap.Logger,
) LeadService {
	return &leadServiceImpl{
		leadRepo: leadRepo,
		activity: activity,
		notifier: notifier,
		logger:   logger,
	}
}

// Create creates a lead, or updates the existing one on a known email
func (s *leadServiceImpl) Create(ctx context.Context, req dto.CreateLeadRequest, actor Actor) (*models.Lead, bool, error) {
	if req.Email != nil && *req.Email != "" {
		existing, err := s.leadRepo.FindByEmail(ctx, *req.Email)
		if err == nil {
			return s.upsertExisting(ctx, existing, req, actor)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("find lead by email: %w", err)
		}
	}

	lead := &models.Lead{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		JobTitle:   req.JobTitle,
		Notes:      req.Notes,
		Status:     models.LeadNew,
		Source:     models.SourceWebsite,
		AssignedTo: req.AssignedTo,
		Metadata:   req.Metadata,
	}
	if req.Status != "" {
		lead.Status = models.LeadStatus(req.Status)
	}
	if req.Source != "" {
		lead.Source = models.LeadSource(req.Source)
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		s.logger.Error("create lead failed", zap.Error(err))
		return nil, false, fmt.Errorf("create lead: %w", err)
	}

	s.activity.Record(ctx, actor, ActivityRecord{
		Action:     "lead.created",
		EntityType: models.EntityLead,
		EntityID:   &lead.ID,
		Details: map[string]interface{}{
			"source": string(lead.Source),
		},
	})

	s.notifier.NotifyNewLead(ctx, lead)

	s.logger.Info("lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("source", string(lead.Source)),
	)

	return lead, true, nil
}

// upsertExisting applies a create request to an already-known lead.
// Every field the payload sets refreshes the existing record.
func (s *leadServiceImpl) upsertExisting(ctx context.Context, lead *models.Lead, req dto.CreateLeadRequest, actor Actor) (*models.Lead, bool, error) {
	update := dto.UpdateLeadRequest{
		FirstName:  &req.FirstName,
		Phone:      req.Phone,
		Company:    req.Company,
		JobTitle:   req.JobTitle,
		AssignedTo: req.AssignedTo,
		Notes:      req.Notes,
		Metadata:   req.Metadata,
	}
	if req.LastName != "" {
		update.LastName = &req.LastName
	}
	if req.Status != "" {
		update.Status = &req.Status
	}
	if req.Source != "" {
		update.Source = &req.Source
	}

	updated, err := s.applyUpdate(ctx, lead, update, actor)
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}

// GetByID finds a lead by ID
func (s *leadServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "lead not found")
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return lead, nil
}

// List lists leads with filters and pagination
func (s *leadServiceImpl) List(ctx context.Context, query dto.ListLeadsQuery) ([]models.Lead, int64, error) {
	filter := repositories.LeadFilter{
		Status: query.Status,
		Source: query.Source,
		Search: query.Search,
	}
	if query.AssignedTo != "" {
		id, err := uuid.Parse(query.AssignedTo)
		if err != nil {
			return nil, 0, apperrors.New(apperrors.ErrInvalidInput, "invalid assigned_to")
		}
		filter.AssignedTo = &id
	}

	return s.leadRepo.Find(ctx, filter, repositories.FindOptions{
		Offset: query.Offset(),
		Limit:  query.PageSize(),
	})
}

// Update applies a partial update and audits the field diff
func (s *leadServiceImpl) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest, actor Actor) (*models.Lead, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, lead, req, actor)
}

// applyUpdate writes changed fields and records {field: {old, new}} diffs.
// When nothing changed, no write and no audit entry happen.
func (s *leadServiceImpl) applyUpdate(ctx context.Context, lead *models.Lead, req dto.UpdateLeadRequest, actor Actor) (*models.Lead, error) {
	diff := map[string]interface{}{}

	setString := func(field string, target *string, value *string) {
		if value != nil && *value != *target {
			diff[field] = map[string]interface{}{"old": *target, "new": *value}
			*target = *value
		}
	}
	setOptional := func(field string, target **string, value *string) {
		if value == nil {
			return
		}
		old := ""
		if *target != nil {
			old = **target
		}
		if old != *value {
			diff[field] = map[string]interface{}{"old": old, "new": *value}
			*target = value
		}
	}

	setString("first_name", &lead.FirstName, req.FirstName)
	setString("last_name", &lead.LastName, req.LastName)
	setOptional("email", &lead.Email, req.Email)
	setOptional("phone", &lead.Phone, req.Phone)
	setOptional("company", &lead.Company, req.Company)
	setOptional("job_title", &lead.JobTitle, req.JobTitle)
	setOptional("notes", &lead.Notes, req.Notes)

	if req.Status != nil && models.LeadStatus(*req.Status) != lead.Status {
		diff["status"] = map[string]interface{}{"old": string(lead.Status), "new": *req.Status}
		lead.Status = models.LeadStatus(*req.Status)
	}
	if req.Source != nil && models.LeadSource(*req.Source) != lead.Source {
		diff["source"] = map[string]interface{}{"old": string(lead.Source), "new": *req.Source}
		lead.Source = models.LeadSource(*req.Source)
	}
	if req.AssignedTo != nil && (lead.AssignedTo == nil || *lead.AssignedTo != *req.AssignedTo) {
		old := ""
		if lead.AssignedTo != nil {
			old = lead.AssignedTo.String()
		}
		diff["assigned_to"] = map[string]interface{}{"old": old, "new": req.AssignedTo.String()}
		lead.AssignedTo = req.AssignedTo
	}
	if req.Metadata != nil {
		lead.Metadata = req.Metadata
	}

	if len(diff) == 0 && req.Metadata == nil {
		return lead, nil
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		s.logger.Error("update lead failed",
			zap.Error(err),
			zap.String("lead_id", lead.ID.String()),
		)
		return nil, fmt.Errorf("update lead: %w", err)
	}

	if len(diff) > 0 {
		s.activity.Record(ctx, actor, ActivityRecord{
			Action:     "lead.updated",
			EntityType: models.EntityLead,
			EntityID:   &lead.ID,
			Details:    diff,
		})
	}

	return lead, nil
}

// Delete removes a lead and cascades to its conversations and messages.
// The audit entry keeps a snapshot of who was deleted.
func (s *leadServiceImpl) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.leadRepo.Delete(ctx, id); err != nil {
		s.logger.Error("delete lead failed",
			zap.Error(err),
			zap.String("lead_id", id.String()),
		)
		return fmt.Errorf("delete lead: %w", err)
	}

	email := ""
	if lead.Email != nil {
		email = *lead.Email
	}
	s.activity.Record(ctx, actor, ActivityRecord{
		Action:     "lead.deleted",
		EntityType: models.EntityLead,
		EntityID:   &id,
		Details: map[string]interface{}{
			"lead_data": map[string]interface{}{
				"name":   lead.FullName(),
				"email":  email,
				"status": string(lead.Status),
			},
		},
	})

	return nil
}

// Convert marks a lead won and stamps the conversion time
func (s *leadServiceImpl) Convert(ctx context.Context, id uuid.UUID, actor Actor) (*models.Lead, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if lead.IsConverted() {
		return lead, nil
	}

	oldStatus := lead.Status
	lead.Convert()

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		s.logger.Error("convert lead failed",
			zap.Error(err),
			zap.String("lead_id", id.String()),
		)
		return nil, fmt.Errorf("convert lead: %w", err)
	}

	s.activity.Record(ctx, actor, ActivityRecord{
		Action:     "lead.converted",
		EntityType: models.EntityLead,
		EntityID:   &lead.ID,
		Details: map[string]interface{}{
			"status": map[string]interface{}{"old": string(oldStatus), "new": string(models.LeadWon)},
		},
	})

	s.logger.Info("lead converted",
		zap.String("lead_id", lead.ID.String()),
	)

	return lead, nil
}

// Stats returns aggregate lead counters. The optional date bounds scope
// the per-source breakdown only; the other counters cover all time.
func (s *leadServiceImpl) Stats(ctx context.Context, query dto.LeadStatsQuery) (*dto.LeadStatsResponse, error) {
	from, to, err := statsBounds(query)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.leadRepo.CountsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counts by status: %w", err)
	}
	for _, status := range models.ValidLeadStatuses() {
		if _, ok := byStatus[string(status)]; !ok {
			byStatus[string(status)] = 0
		}
	}

	sourceRows, err := s.leadRepo.SourceStats(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("source stats: %w", err)
	}
	bySource := make([]dto.SourceStats, 0, len(sourceRows))
	seen := make(map[string]bool, len(sourceRows))
	for _, row := range sourceRows {
		seen[row.Source] = true
		var sourceRate float64
		if row.Total > 0 {
			sourceRate = float64(row.Converted) / float64(row.Total) * 100
		}
		bySource = append(bySource, dto.SourceStats{
			Source:         row.Source,
			TotalLeads:     row.Total,
			ConvertedLeads: row.Converted,
			ConversionRate: sourceRate,
		})
	}
	for _, source := range models.ValidLeadSources() {
		if !seen[string(source)] {
			bySource = append(bySource, dto.SourceStats{Source: string(source)})
		}
	}

	unassigned, err := s.leadRepo.CountUnassigned(ctx)
	if err != nil {
		return nil, fmt.Errorf("count unassigned: %w", err)
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	converted := byStatus[string(models.LeadWon)]
	var conversionRate float64
	if total > 0 {
		conversionRate = float64(converted) / float64(total) * 100
	}

	return &dto.LeadStatsResponse{
		Total:          total,
		ByStatus:       byStatus,
		BySource:       bySource,
		Converted:      converted,
		ConversionRate: conversionRate,
		Unassigned:     unassigned,
	}, nil
}

// statsBounds parses the optional date bounds; the end date is inclusive
func statsBounds(query dto.LeadStatsQuery) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if query.StartDate != "" {
		t, err := time.ParseInLocation(dateLayout, query.StartDate, time.Local)
		if err != nil {
			return nil, nil, apperrors.New(apperrors.ErrInvalidInput, "invalid start_date: "+query.StartDate)
		}
		from = &t
	}
	if query.EndDate != "" {
		t, err := time.ParseInLocation(dateLayout, query.EndDate, time.Local)
		if err != nil {
			return nil, nil, apperrors.New(apperrors.ErrInvalidInput, "invalid end_date: "+query.EndDate)
		}
		t = t.AddDate(0, 0, 1)
		to = &t
	}
	return from, to, nil
}
