package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	holdserrors "bookery/internal/holds/errors"
	"bookery/pkg/config"
	mongotx "bookery/pkg/db/mongo"
	"bookery/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Temporary_reservations"
)

type mongoTemporaryReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type TemporaryReservationRepository interface {
	Create(ctx context.Context, hold *model.TemporaryReservation) error
	FindByID(ctx context.Context, id string) (*model.TemporaryReservation, error)
	// FindActiveConflict returns the first PENDING, unexpired hold on the
	// same facility (or facility type) whose window touches the inclusive
	// [start, end] range, or nil when none competes.
	FindActiveConflict(ctx context.Context, facilityID, facilityTypeName string, start, end, now time.Time) (*model.TemporaryReservation, error)
	// UpdateStatus moves a PENDING hold into the given status. A hold already
	// resolved by a concurrent request returns ErrAlreadyResolved.
	UpdateStatus(ctx context.Context, id string, status model.HoldStatus) error
	// ExpireAllPending bulk-moves every PENDING hold past its expiry into
	// EXPIRED and returns how many were transitioned.
	ExpireAllPending(ctx context.Context, now time.Time) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoTemporaryReservationRepository(cfg *config.Config) TemporaryReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTemporaryReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// Inside a transaction (SessionContext) the original context is returned
// unchanged with a no-op cancel, as wrapping would break transaction semantics.
func (r *mongoTemporaryReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoTemporaryReservationRepository) Create(ctx context.Context, hold *model.TemporaryReservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	hold.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, hold)
	if err != nil {
		return fmt.Errorf("failed to create temporary reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		hold.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTemporaryReservationRepository) FindByID(ctx context.Context, id string) (*model.TemporaryReservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", holdserrors.ErrInvalidID, id)
	}

	var hold model.TemporaryReservation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&hold)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, holdserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find temporary reservation: %w", err)
	}

	return &hold, nil
}

func (r *mongoTemporaryReservationRepository) FindActiveConflict(ctx context.Context, facilityID, facilityTypeName string, start, end, now time.Time) (*model.TemporaryReservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	target := bson.M{}
	switch {
	case facilityID != "":
		target["facility_id"] = facilityID
	case facilityTypeName != "":
		target["facility_type_name"] = facilityTypeName
	default:
		return nil, nil
	}

	filter := bson.M{
		"status":     model.HoldPending,
		"expires_at": bson.M{"$gt": now},
		"start_date": bson.M{"$lte": end},
		"end_date":   bson.M{"$gte": start},
	}
	for k, v := range target {
		filter[k] = v
	}

	var hold model.TemporaryReservation
	err := r.collection.FindOne(ctx, filter).Decode(&hold)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find conflicting hold: %w", err)
	}

	return &hold, nil
}

func (r *mongoTemporaryReservationRepository) UpdateStatus(ctx context.Context, id string, status model.HoldStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", holdserrors.ErrInvalidID, id)
	}

	// Every legal hold transition starts from PENDING; filtering on it makes
	// the write a no-op when a concurrent request resolved the hold first.
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": model.HoldPending},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update hold status: %w", err)
	}
	if result.MatchedCount == 0 {
		return holdserrors.ErrAlreadyResolved
	}
	return nil
}

func (r *mongoTemporaryReservationRepository) ExpireAllPending(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateMany(ctx,
		bson.M{
			"status":     model.HoldPending,
			"expires_at": bson.M{"$lte": now},
		},
		bson.M{"$set": bson.M{"status": model.HoldExpired}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending holds: %w", err)
	}

	return result.ModifiedCount, nil
}

func (r *mongoTemporaryReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
