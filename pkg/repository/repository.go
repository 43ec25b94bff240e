// Package repository defines the persistence contracts for organizations
// and systems. Implementations live in the memory, postgres and mongo
// subpackages.
package repository

import (
	"context"

	"github.com/tendant/carbon-tracker/pkg/domain"
)

// OrganizationsRepository handles organization persistence.
type OrganizationsRepository interface {
	// Create stores org and assigns its ID.
	Create(ctx context.Context, org *domain.Organization) error

	// GetByID returns domain.ErrOrganizationNotFound if id does not exist
	// or is not a well-formed id for the backend.
	GetByID(ctx context.Context, id string) (*domain.Organization, error)

	// List returns every organization ordered by creation time.
	List(ctx context.Context) ([]*domain.Organization, error)

	// UpdateName returns domain.ErrOrganizationNotFound if id does not exist.
	UpdateName(ctx context.Context, id, name string) error

	// AppendSystem adds systemID to the end of the organization's system list.
	AppendSystem(ctx context.Context, id, systemID string) error

	// Delete removes the organization only. Owned systems are purged by the
	// caller through SystemsRepository.DeleteByOrganization.
	Delete(ctx context.Context, id string) error
}

// SystemsRepository handles system persistence.
type SystemsRepository interface {
	// Create stores sys and assigns its ID.
	Create(ctx context.Context, sys *domain.System) error

	// GetByID returns domain.ErrSystemNotFound if id does not exist.
	GetByID(ctx context.Context, id string) (*domain.System, error)

	// GetByIDs returns the systems that exist among ids, in the order of
	// ids. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.System, error)

	// ListByOrganization returns the systems owned by orgID ordered by
	// creation time.
	ListByOrganization(ctx context.Context, orgID string) ([]*domain.System, error)

	// Update replaces the variant and metrics of sys.
	Update(ctx context.Context, sys *domain.System) error

	// Delete returns domain.ErrSystemNotFound if id does not exist.
	Delete(ctx context.Context, id string) error

	// DeleteByOrganization removes every system owned by orgID and reports
	// how many were removed.
	DeleteByOrganization(ctx context.Context, orgID string) (int64, error)
}

// Store bundles both repositories over one backend connection.
type Store interface {
	Organizations() OrganizationsRepository
	Systems() SystemsRepository
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend connection.
	Close(ctx context.Context) error
}
