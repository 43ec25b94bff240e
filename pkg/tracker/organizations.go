// Package tracker implements the organization and system operations on
// top of the repository contracts.
package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tendant/carbon-tracker/pkg/domain"
	"github.com/tendant/carbon-tracker/pkg/repository"
)

// OrganizationService owns organizations and the cascade onto their systems.
type OrganizationService struct {
	logger *slog.Logger
	orgs   repository.OrganizationsRepository
	sys    repository.SystemsRepository
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(logger *slog.Logger, store repository.Store) *OrganizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrganizationService{
		logger: logger,
		orgs:   store.Organizations(),
		sys:    store.Systems(),
	}
}

// Create persists a new organization with no systems.
func (s *OrganizationService) Create(ctx context.Context, name string) (*domain.OrganizationWithSystems, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	org := &domain.Organization{Name: name}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}

	return &domain.OrganizationWithSystems{Organization: *org, Systems: []*domain.System{}}, nil
}

// ListAll returns every organization with its systems resolved.
func (s *OrganizationService) ListAll(ctx context.Context) ([]*domain.OrganizationWithSystems, error) {
	orgs, err := s.orgs.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.OrganizationWithSystems, 0, len(orgs))
	for _, org := range orgs {
		resolved, err := s.resolve(ctx, org)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// GetByID returns the organization with its systems resolved.
func (s *OrganizationService) GetByID(ctx context.Context, id string) (*domain.OrganizationWithSystems, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, org)
}

// Rename changes the organization name.
func (s *OrganizationService) Rename(ctx context.Context, id, name string) (*domain.OrganizationWithSystems, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	if err := s.orgs.UpdateName(ctx, id, name); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// DeleteByID purges the organization's systems, then the organization.
// A concurrent delete of the same id ends with the loser seeing
// domain.ErrOrganizationNotFound and no systems left behind.
func (s *OrganizationService) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.orgs.GetByID(ctx, id); err != nil {
		return err
	}

	n, err := s.sys.DeleteByOrganization(ctx, id)
	if err != nil {
		return fmt.Errorf("purge systems of organization %s: %w", id, err)
	}

	if err := s.orgs.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("organization deleted", "organization_id", id, "systems_deleted", n)
	return nil
}

// resolve swaps system ids for records, dropping ids that no longer exist.
func (s *OrganizationService) resolve(ctx context.Context, org *domain.Organization) (*domain.OrganizationWithSystems, error) {
	systems, err := s.sys.GetByIDs(ctx, org.SystemIDs)
	if err != nil {
		return nil, err
	}
	return &domain.OrganizationWithSystems{Organization: *org, Systems: systems}, nil
}
