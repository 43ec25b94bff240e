package tracker

import (
	"context"
	"log/slog"

	"github.com/tendant/carbon-tracker/pkg/domain"
	"github.com/tendant/carbon-tracker/pkg/repository"
)

// SystemInput is the type and flat variant fields of a create or update
// request.
type SystemInput struct {
	Type   string
	Fields domain.VariantFields
	// Metrics are applied on update only; nil fields keep stored values.
	Metrics domain.Metrics
}

// SystemService manages systems within their owning organization.
type SystemService struct {
	logger *slog.Logger
	orgs   repository.OrganizationsRepository
	sys    repository.SystemsRepository
}

// NewSystemService creates a new system service.
func NewSystemService(logger *slog.Logger, store repository.Store) *SystemService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemService{
		logger: logger,
		orgs:   store.Organizations(),
		sys:    store.Systems(),
	}
}

// AddToOrganization creates a system owned by orgID and records it on the
// organization.
func (s *SystemService) AddToOrganization(ctx context.Context, orgID string, in SystemInput) (*domain.System, error) {
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return nil, err
	}

	variant, err := domain.BuildVariant(in.Type, in.Fields)
	if err != nil {
		return nil, err
	}
	metrics, err := validateMetrics(in.Metrics)
	if err != nil {
		return nil, err
	}

	sys := &domain.System{
		Variant:        variant,
		Metrics:        metrics,
		OrganizationID: orgID,
	}
	if err := s.sys.Create(ctx, sys); err != nil {
		return nil, err
	}

	if err := s.orgs.AppendSystem(ctx, orgID, sys.ID); err != nil {
		// The organization vanished between the lookup and the append.
		if delErr := s.sys.Delete(ctx, sys.ID); delErr != nil {
			s.logger.Error("failed to remove orphaned system", "error", delErr, "system_id", sys.ID)
		}
		return nil, err
	}

	return sys, nil
}

// ListByOrganization returns the systems owned by orgID with absent text
// fields marked domain.NotAvailable.
func (s *SystemService) ListByOrganization(ctx context.Context, orgID string) ([]*domain.System, error) {
	systems, err := s.sys.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.System, 0, len(systems))
	for _, sys := range systems {
		out = append(out, sys.Normalized())
	}
	return out, nil
}

// Get returns a system that belongs to orgID.
func (s *SystemService) Get(ctx context.Context, orgID, systemID string) (*domain.System, error) {
	sys, err := s.sys.GetByID(ctx, systemID)
	if err != nil {
		return nil, err
	}
	if orgID != "" && sys.OrganizationID != orgID {
		return nil, domain.ErrSystemNotFound
	}
	return sys, nil
}

// Update replaces the variant payload of a system and applies any metrics
// set in the input.
func (s *SystemService) Update(ctx context.Context, orgID, systemID string, in SystemInput) (*domain.System, error) {
	sys, err := s.Get(ctx, orgID, systemID)
	if err != nil {
		return nil, err
	}

	variant, err := domain.BuildVariant(in.Type, in.Fields)
	if err != nil {
		return nil, err
	}
	metrics, err := validateMetrics(in.Metrics)
	if err != nil {
		return nil, err
	}

	sys.Variant = variant
	sys.Metrics = sys.Metrics.Apply(metrics)
	if err := s.sys.Update(ctx, sys); err != nil {
		return nil, err
	}
	return sys, nil
}

// Delete removes a system. The owning organization keeps the stale id
// until its next resolution drops it.
func (s *SystemService) Delete(ctx context.Context, orgID, systemID string) error {
	if _, err := s.Get(ctx, orgID, systemID); err != nil {
		return err
	}
	return s.sys.Delete(ctx, systemID)
}
