package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tendant/carbon-tracker/pkg/domain"
)

// OrganizationsRepository handles organization persistence.
type OrganizationsRepository struct {
	db *sql.DB
}

// NewOrganizationsRepository creates a new organizations repository.
func NewOrganizationsRepository(db *sql.DB) *OrganizationsRepository {
	return &OrganizationsRepository{db: db}
}

// Create creates a new organization.
func (r *OrganizationsRepository) Create(ctx context.Context, org *domain.Organization) error {
	return r.CreateTx(ctx, r.db, org)
}

// CreateTx creates a new organization within a transaction.
func (r *OrganizationsRepository) CreateTx(ctx context.Context, q Querier, org *domain.Organization) error {
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	if org.SystemIDs == nil {
		org.SystemIDs = []string{}
	}
	id := uuid.New()

	query := `
		INSERT INTO organizations (id, name, system_ids, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := q.ExecContext(ctx, query,
		id,
		org.Name,
		pq.Array(org.SystemIDs),
		org.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}

	org.ID = id.String()
	return nil
}

// GetByID retrieves an organization by ID.
func (r *OrganizationsRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	orgID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrOrganizationNotFound
	}

	query := `
		SELECT id, name, system_ids, created_at
		FROM organizations
		WHERE id = $1
	`

	org, err := scanOrganization(r.db.QueryRowContext(ctx, query, orgID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}

	return org, nil
}

// List retrieves all organizations.
func (r *OrganizationsRepository) List(ctx context.Context) ([]*domain.Organization, error) {
	query := `
		SELECT id, name, system_ids, created_at
		FROM organizations
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	orgs := []*domain.Organization{}
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}

	return orgs, rows.Err()
}

// UpdateName renames an organization.
func (r *OrganizationsRepository) UpdateName(ctx context.Context, id, name string) error {
	orgID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrOrganizationNotFound
	}

	query := `
		UPDATE organizations
		SET name = $1
		WHERE id = $2
	`
	return execAffectingOne(ctx, r.db, domain.ErrOrganizationNotFound, query, name, orgID)
}

// AppendSystem records systemID as owned by the organization.
func (r *OrganizationsRepository) AppendSystem(ctx context.Context, id, systemID string) error {
	orgID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrOrganizationNotFound
	}

	query := `
		UPDATE organizations
		SET system_ids = array_append(system_ids, $1)
		WHERE id = $2
	`
	return execAffectingOne(ctx, r.db, domain.ErrOrganizationNotFound, query, systemID, orgID)
}

// Delete removes an organization row.
func (r *OrganizationsRepository) Delete(ctx context.Context, id string) error {
	orgID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrOrganizationNotFound
	}

	query := `DELETE FROM organizations WHERE id = $1`
	return execAffectingOne(ctx, r.db, domain.ErrOrganizationNotFound, query, orgID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (*domain.Organization, error) {
	var (
		org       domain.Organization
		id        uuid.UUID
		systemIDs []string
	)
	if err := row.Scan(&id, &org.Name, pq.Array(&systemIDs), &org.CreatedAt); err != nil {
		return nil, err
	}
	org.ID = id.String()
	org.SystemIDs = systemIDs
	if org.SystemIDs == nil {
		org.SystemIDs = []string{}
	}
	return &org, nil
}

func execAffectingOne(ctx context.Context, q Querier, notFound error, query string, args ...any) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}

	return nil
}
