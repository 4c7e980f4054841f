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
)

const (
	RateTypeCollection = "Rate_types"
)

type mongoRateTypeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type RateTypeRepository interface {
	Create(ctx context.Context, rt *model.RateType) error
	FindByID(ctx context.Context, id string) (*model.RateType, error)
}

func NewMongoRateTypeRepository(cfg *config.Config) RateTypeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRateTypeRepository{
		cfg:        cfg,
		collection: db.Collection(RateTypeCollection),
	}
}

func (r *mongoRateTypeRepository) Create(ctx context.Context, rt *model.RateType) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rt.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, rt)
	if err != nil {
		return fmt.Errorf("failed to create rate type: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		rt.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRateTypeRepository) FindByID(ctx context.Context, id string) (*model.RateType, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", facilitieserrors.ErrInvalidID, id)
	}

	var rt model.RateType
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&rt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, facilitieserrors.ErrRateTypeNotFound
		}
		return nil, fmt.Errorf("failed to find rate type: %w", err)
	}

	return &rt, nil
}
