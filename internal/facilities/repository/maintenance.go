package repository

import (
	"context"
	"fmt"
	"time"

	"bookery/pkg/config"
	"bookery/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	MaintenanceCollection = "Maintenance_records"
)

type mongoMaintenanceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type MaintenanceRepository interface {
	Create(ctx context.Context, rec *model.MaintenanceRecord) error
	FindBlocking(ctx context.Context, start, end time.Time, facilityIDs []string) ([]*model.MaintenanceRecord, error)
}

func NewMongoMaintenanceRepository(cfg *config.Config) MaintenanceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMaintenanceRepository{
		cfg:        cfg,
		collection: db.Collection(MaintenanceCollection),
	}
}

func (r *mongoMaintenanceRepository) Create(ctx context.Context, rec *model.MaintenanceRecord) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	rec.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to create maintenance record: %w", err)
	}
	return nil
}

// FindBlocking returns maintenance records in a blocking status that touch
// the inclusive [start, end] window for any of the given facilities. A record
// blocks through one of three shapes: a bounded range, an open-ended range
// with no end date, or a single-day entry.
func (r *mongoMaintenanceRepository) FindBlocking(ctx context.Context, start, end time.Time, facilityIDs []string) ([]*model.MaintenanceRecord, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"facility_id": bson.M{"$in": facilityIDs},
		"status":      bson.M{"$in": model.BlockingMaintenanceStatuses},
		"$or": []bson.M{
			{
				"start_date": bson.M{"$lte": end},
				"end_date":   bson.M{"$gte": start},
			},
			{
				"start_date": bson.M{"$lte": end},
				"end_date":   nil,
			},
			{
				"date": bson.M{"$gte": start, "$lte": end},
			},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find maintenance records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.MaintenanceRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode maintenance records: %w", err)
	}

	return records, nil
}
