package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	facilitieserrors "bookery/internal/facilities/errors"
	"bookery/pkg/config"
	"bookery/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	FacilityCollection = "Facilities"
)

type mongoFacilityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type FacilityRepository interface {
	Create(ctx context.Context, facility *model.Facility) error
	FindByID(ctx context.Context, id string) (*model.Facility, error)
	// FindByTypeIDs returns all non-deleted facilities under the given types,
	// sorted alphabetically by name. The stable order is what makes
	// concurrent assignment races converge on the same candidate.
	FindByTypeIDs(ctx context.Context, typeIDs []string) ([]*model.Facility, error)
	// FindFirstAvailable returns the first facility (by name) of the given
	// type whose ID is not in the excluded set, or nil when every unit is
	// taken. Expressed as one query, not an in-process scan.
	FindFirstAvailable(ctx context.Context, typeID string, excludedIDs []string) (*model.Facility, error)
	CountByTypeID(ctx context.Context, typeID string) (int64, error)
}

func NewMongoFacilityRepository(cfg *config.Config) FacilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFacilityRepository{
		cfg:        cfg,
		collection: db.Collection(FacilityCollection),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// Inside a transaction (SessionContext) the original context is returned
// unchanged with a no-op cancel, as wrapping would break transaction semantics.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoFacilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	facility.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, facility)
	if err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		facility.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFacilityRepository) FindByID(ctx context.Context, id string) (*model.Facility, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", facilitieserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "deleted": false}

	var facility model.Facility
	err = r.collection.FindOne(ctx, filter).Decode(&facility)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, facilitieserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find facility: %w", err)
	}

	return &facility, nil
}

func (r *mongoFacilityRepository) FindByTypeIDs(ctx context.Context, typeIDs []string) ([]*model.Facility, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"facility_type_id": bson.M{"$in": typeIDs},
		"deleted":          false,
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find facilities: %w", err)
	}
	defer cursor.Close(ctx)

	var facilities []*model.Facility
	if err = cursor.All(ctx, &facilities); err != nil {
		return nil, fmt.Errorf("failed to decode facilities: %w", err)
	}

	return facilities, nil
}

func (r *mongoFacilityRepository) FindFirstAvailable(ctx context.Context, typeID string, excludedIDs []string) (*model.Facility, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	excluded := make([]primitive.ObjectID, 0, len(excludedIDs))
	for _, id := range excludedIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		excluded = append(excluded, oid)
	}

	filter := bson.M{
		"facility_type_id": typeID,
		"deleted":          false,
	}
	if len(excluded) > 0 {
		filter["_id"] = bson.M{"$nin": excluded}
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "name", Value: 1}})

	var facility model.Facility
	err := r.collection.FindOne(ctx, filter, opts).Decode(&facility)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find available facility: %w", err)
	}

	return &facility, nil
}

func (r *mongoFacilityRepository) CountByTypeID(ctx context.Context, typeID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"facility_type_id": typeID,
		"deleted":          false,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count facilities: %w", err)
	}

	return count, nil
}
