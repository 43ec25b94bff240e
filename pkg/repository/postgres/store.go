package postgres

import (
	"context"
	"database/sql"

	"github.com/tendant/carbon-tracker/pkg/repository"
)

var _ repository.Store = (*Store)(nil)

// Store owns the connection pool shared by both repositories.
type Store struct {
	db            *sql.DB
	organizations *OrganizationsRepository
	systems       *SystemsRepository
}

// NewStore wraps db. When migrate is true the schema is applied first,
// otherwise the tables must already exist.
func NewStore(ctx context.Context, db *sql.DB, migrate bool) (*Store, error) {
	if migrate {
		if err := Migrate(ctx, db); err != nil {
			return nil, err
		}
	} else if err := validateSchema(ctx, db); err != nil {
		return nil, err
	}

	return &Store{
		db:            db,
		organizations: NewOrganizationsRepository(db),
		systems:       NewSystemsRepository(db),
	}, nil
}

// Organizations returns the organization repository.
func (s *Store) Organizations() repository.OrganizationsRepository { return s.organizations }

// Systems returns the system repository.
func (s *Store) Systems() repository.SystemsRepository { return s.systems }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close closes the connection pool.
func (s *Store) Close(context.Context) error { return s.db.Close() }
