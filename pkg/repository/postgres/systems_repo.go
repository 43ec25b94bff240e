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

const systemColumns = `id, type, details, emissions, efficiency, recommendations, organization_id, created_at`

// SystemsRepository handles system persistence.
type SystemsRepository struct {
	db *sql.DB
}

// NewSystemsRepository creates a new systems repository.
func NewSystemsRepository(db *sql.DB) *SystemsRepository {
	return &SystemsRepository{db: db}
}

// Create creates a new system.
func (r *SystemsRepository) Create(ctx context.Context, sys *domain.System) error {
	return r.CreateTx(ctx, r.db, sys)
}

// CreateTx creates a new system within a transaction.
func (r *SystemsRepository) CreateTx(ctx context.Context, q Querier, sys *domain.System) error {
	orgID, err := uuid.Parse(sys.OrganizationID)
	if err != nil {
		return domain.ErrOrganizationNotFound
	}

	systemType, raw, err := encodeDetails(sys.Variant)
	if err != nil {
		return err
	}
	if sys.CreatedAt.IsZero() {
		sys.CreatedAt = time.Now().UTC()
	}
	id := uuid.New()

	query := `
		INSERT INTO systems (` + systemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = q.ExecContext(ctx, query,
		id,
		systemType,
		string(raw),
		sys.Metrics.Emissions,
		sys.Metrics.Efficiency,
		sys.Metrics.Recommendations,
		orgID,
		sys.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert system: %w", mapError(err))
	}

	sys.ID = id.String()
	return nil
}

// GetByID retrieves a system by ID.
func (r *SystemsRepository) GetByID(ctx context.Context, id string) (*domain.System, error) {
	systemID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrSystemNotFound
	}

	query := `SELECT ` + systemColumns + ` FROM systems WHERE id = $1`

	sys, err := scanSystem(r.db.QueryRowContext(ctx, query, systemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSystemNotFound
		}
		return nil, fmt.Errorf("get system: %w", err)
	}

	return sys, nil
}

// GetByIDs retrieves the existing systems among ids, preserving their order.
func (r *SystemsRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.System, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []*domain.System{}, nil
	}

	query := `SELECT ` + systemColumns + ` FROM systems WHERE id = ANY($1::uuid[])`

	found, err := r.query(ctx, query, pq.Array(valid))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.System, len(found))
	for _, sys := range found {
		byID[sys.ID] = sys
	}

	out := make([]*domain.System, 0, len(found))
	for _, id := range valid {
		if sys, ok := byID[id]; ok {
			out = append(out, sys)
		}
	}
	return out, nil
}

// ListByOrganization retrieves all systems of an organization.
func (r *SystemsRepository) ListByOrganization(ctx context.Context, orgID string) ([]*domain.System, error) {
	id, err := uuid.Parse(orgID)
	if err != nil {
		return []*domain.System{}, nil
	}

	query := `
		SELECT ` + systemColumns + `
		FROM systems
		WHERE organization_id = $1
		ORDER BY created_at ASC
	`
	return r.query(ctx, query, id)
}

// Update replaces the variant payload and metrics of a system.
func (r *SystemsRepository) Update(ctx context.Context, sys *domain.System) error {
	systemID, err := uuid.Parse(sys.ID)
	if err != nil {
		return domain.ErrSystemNotFound
	}

	systemType, raw, err := encodeDetails(sys.Variant)
	if err != nil {
		return err
	}

	query := `
		UPDATE systems
		SET type = $1, details = $2, emissions = $3, efficiency = $4, recommendations = $5
		WHERE id = $6
	`
	return execAffectingOne(ctx, r.db, domain.ErrSystemNotFound, query,
		systemType,
		string(raw),
		sys.Metrics.Emissions,
		sys.Metrics.Efficiency,
		sys.Metrics.Recommendations,
		systemID,
	)
}

// Delete removes a system.
func (r *SystemsRepository) Delete(ctx context.Context, id string) error {
	systemID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrSystemNotFound
	}

	query := `DELETE FROM systems WHERE id = $1`
	return execAffectingOne(ctx, r.db, domain.ErrSystemNotFound, query, systemID)
}

// DeleteByOrganization removes every system owned by orgID.
func (r *SystemsRepository) DeleteByOrganization(ctx context.Context, orgID string) (int64, error) {
	id, err := uuid.Parse(orgID)
	if err != nil {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM systems WHERE organization_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete systems: %w", mapError(err))
	}
	return result.RowsAffected()
}

func (r *SystemsRepository) query(ctx context.Context, query string, args ...any) ([]*domain.System, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query systems: %w", mapError(err))
	}
	defer rows.Close()

	systems := []*domain.System{}
	for rows.Next() {
		sys, err := scanSystem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan system: %w", err)
		}
		systems = append(systems, sys)
	}

	return systems, rows.Err()
}

func scanSystem(row rowScanner) (*domain.System, error) {
	var (
		sys             domain.System
		id, orgID       uuid.UUID
		systemType      string
		raw             []byte
		emissions       sql.NullFloat64
		efficiency      sql.NullFloat64
		recommendations sql.NullString
	)
	err := row.Scan(
		&id,
		&systemType,
		&raw,
		&emissions,
		&efficiency,
		&recommendations,
		&orgID,
		&sys.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	variant, err := decodeDetails(systemType, raw)
	if err != nil {
		return nil, err
	}

	sys.ID = id.String()
	sys.OrganizationID = orgID.String()
	sys.Variant = variant
	if emissions.Valid {
		sys.Metrics.Emissions = &emissions.Float64
	}
	if efficiency.Valid {
		sys.Metrics.Efficiency = &efficiency.Float64
	}
	if recommendations.Valid {
		sys.Metrics.Recommendations = &recommendations.String
	}
	return &sys, nil
}
