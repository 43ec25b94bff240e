package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tendant/carbon-tracker/pkg/domain"
)

// SystemsRepository handles system documents.
type SystemsRepository struct {
	coll *mongo.Collection
}

// NewSystemsRepository creates a repository over coll.
func NewSystemsRepository(coll *mongo.Collection) *SystemsRepository {
	return &SystemsRepository{coll: coll}
}

// Create inserts a new system.
func (r *SystemsRepository) Create(ctx context.Context, sys *domain.System) error {
	orgID, err := primitive.ObjectIDFromHex(sys.OrganizationID)
	if err != nil {
		return domain.ErrOrganizationNotFound
	}
	if sys.CreatedAt.IsZero() {
		sys.CreatedAt = time.Now().UTC()
	}

	doc, err := newSystemDocument(sys, orgID)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert system: %w", err)
	}

	sys.ID = doc.ID.Hex()
	return nil
}

// GetByID retrieves a system by ID.
func (r *SystemsRepository) GetByID(ctx context.Context, id string) (*domain.System, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSystemNotFound
	}

	var doc systemDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSystemNotFound
		}
		return nil, fmt.Errorf("find system: %w", err)
	}

	return doc.toDomain()
}

// GetByIDs retrieves the existing systems among ids, preserving their order.
func (r *SystemsRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.System, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*domain.System{}, nil
	}

	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.System, len(found))
	for _, sys := range found {
		byID[sys.ID] = sys
	}

	out := make([]*domain.System, 0, len(found))
	for _, oid := range oids {
		if sys, ok := byID[oid.Hex()]; ok {
			out = append(out, sys)
		}
	}
	return out, nil
}

// ListByOrganization retrieves the systems owned by orgID.
func (r *SystemsRepository) ListByOrganization(ctx context.Context, orgID string) ([]*domain.System, error) {
	oid, err := primitive.ObjectIDFromHex(orgID)
	if err != nil {
		return []*domain.System{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"organization": oid}, opts)
}

// Update replaces the stored document so no field of a previous variant
// survives a type change.
func (r *SystemsRepository) Update(ctx context.Context, sys *domain.System) error {
	oid, err := primitive.ObjectIDFromHex(sys.ID)
	if err != nil {
		return domain.ErrSystemNotFound
	}
	orgID, err := primitive.ObjectIDFromHex(sys.OrganizationID)
	if err != nil {
		return domain.ErrOrganizationNotFound
	}

	doc, err := newSystemDocument(sys, orgID)
	if err != nil {
		return err
	}
	doc.ID = oid

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("replace system: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrSystemNotFound
	}
	return nil
}

// Delete removes a system.
func (r *SystemsRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSystemNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete system: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrSystemNotFound
	}
	return nil
}

// DeleteByOrganization removes every system owned by orgID.
func (r *SystemsRepository) DeleteByOrganization(ctx context.Context, orgID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(orgID)
	if err != nil {
		return 0, nil
	}

	result, err := r.coll.DeleteMany(ctx, bson.M{"organization": oid})
	if err != nil {
		return 0, fmt.Errorf("delete systems: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *SystemsRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.System, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	cursor, err := r.coll.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("find systems: %w", err)
	}
	defer cursor.Close(ctx)

	systems := []*domain.System{}
	for cursor.Next(ctx) {
		var doc systemDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode system: %w", err)
		}
		sys, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		systems = append(systems, sys)
	}

	return systems, cursor.Err()
}
