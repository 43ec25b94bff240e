package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tendant/carbon-tracker/pkg/repository"
)

var _ repository.Store = (*Store)(nil)

// Store holds the collections of one database. The client is owned by the
// store and disconnected on Close.
type Store struct {
	client        *mongo.Client
	organizations *OrganizationsRepository
	systems       *SystemsRepository
}

// NewStore binds the repositories to database and ensures indexes.
func NewStore(ctx context.Context, client *mongo.Client, database string) (*Store, error) {
	db := client.Database(database)
	if err := EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	return &Store{
		client:        client,
		organizations: NewOrganizationsRepository(db.Collection(organizationsCollection)),
		systems:       NewSystemsRepository(db.Collection(systemsCollection)),
	}, nil
}

// Organizations returns the organization repository.
func (s *Store) Organizations() repository.OrganizationsRepository { return s.organizations }

// Systems returns the system repository.
func (s *Store) Systems() repository.SystemsRepository { return s.systems }

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
