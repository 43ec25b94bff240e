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

// OrganizationsRepository handles organization documents.
type OrganizationsRepository struct {
	coll *mongo.Collection
}

// NewOrganizationsRepository creates a repository over coll.
func NewOrganizationsRepository(coll *mongo.Collection) *OrganizationsRepository {
	return &OrganizationsRepository{coll: coll}
}

// Create inserts a new organization.
func (r *OrganizationsRepository) Create(ctx context.Context, org *domain.Organization) error {
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}

	doc := organizationDocument{
		ID:        primitive.NewObjectID(),
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
		Systems:   []primitive.ObjectID{},
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}

	org.ID = doc.ID.Hex()
	org.SystemIDs = []string{}
	return nil
}

// GetByID retrieves an organization by ID.
func (r *OrganizationsRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrganizationNotFound
	}

	var doc organizationDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("find organization: %w", err)
	}

	return doc.toDomain(), nil
}

// List retrieves every organization ordered by creation time.
func (r *OrganizationsRepository) List(ctx context.Context) ([]*domain.Organization, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find organizations: %w", err)
	}
	defer cursor.Close(ctx)

	orgs := []*domain.Organization{}
	for cursor.Next(ctx) {
		var doc organizationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode organization: %w", err)
		}
		orgs = append(orgs, doc.toDomain())
	}

	return orgs, cursor.Err()
}

// UpdateName renames an organization.
func (r *OrganizationsRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"name": name}})
}

// AppendSystem pushes systemID onto the organization's systems array.
func (r *OrganizationsRepository) AppendSystem(ctx context.Context, id, systemID string) error {
	sid, err := primitive.ObjectIDFromHex(systemID)
	if err != nil {
		return domain.ErrSystemNotFound
	}
	return r.updateOne(ctx, id, bson.M{"$push": bson.M{"systems": sid}})
}

// Delete removes the organization document.
func (r *OrganizationsRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrganizationNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrOrganizationNotFound
	}
	return nil
}

func (r *OrganizationsRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrganizationNotFound
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrOrganizationNotFound
	}
	return nil
}
