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
	FacilityTypeCollection = "Facility_types"
)

type mongoFacilityTypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// TypeQuery narrows candidate facility types at the query level; metadata
// filters that cannot be expressed against the polymorphic payload are
// applied by the service afterwards.
type TypeQuery struct {
	ID       string
	Name     string
	MinPrice *float64
	MaxPrice *float64
}

type FacilityTypeRepository interface {
	Create(ctx context.Context, ft *model.FacilityType) error
	FindByID(ctx context.Context, id string) (*model.FacilityType, error)
	FindByName(ctx context.Context, name string) (*model.FacilityType, error)
	FindCandidates(ctx context.Context, q TypeQuery) ([]*model.FacilityType, error)
}

func NewMongoFacilityTypeRepository(cfg *config.Config) FacilityTypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFacilityTypeRepository{
		cfg:        cfg,
		collection: db.Collection(FacilityTypeCollection),
	}
}

func (r *mongoFacilityTypeRepository) Create(ctx context.Context, ft *model.FacilityType) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	ft.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, ft)
	if err != nil {
		return fmt.Errorf("failed to create facility type: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		ft.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFacilityTypeRepository) FindByID(ctx context.Context, id string) (*model.FacilityType, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", facilitieserrors.ErrInvalidID, id)
	}

	var ft model.FacilityType
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&ft)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, facilitieserrors.ErrTypeNotFound
		}
		return nil, fmt.Errorf("failed to find facility type: %w", err)
	}

	return &ft, nil
}

func (r *mongoFacilityTypeRepository) FindByName(ctx context.Context, name string) (*model.FacilityType, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var ft model.FacilityType
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&ft)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, facilitieserrors.ErrTypeNotFound
		}
		return nil, fmt.Errorf("failed to find facility type: %w", err)
	}

	return &ft, nil
}

func (r *mongoFacilityTypeRepository) FindCandidates(ctx context.Context, q TypeQuery) ([]*model.FacilityType, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if q.ID != "" {
		objectID, err := primitive.ObjectIDFromHex(q.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", facilitieserrors.ErrInvalidID, q.ID)
		}
		filter["_id"] = objectID
	}
	if q.Name != "" {
		filter["name"] = q.Name
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find facility types: %w", err)
	}
	defer cursor.Close(ctx)

	var types []*model.FacilityType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, fmt.Errorf("failed to decode facility types: %w", err)
	}

	return types, nil
}
