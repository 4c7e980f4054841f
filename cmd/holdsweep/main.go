package main

import (
	"context"

	facilitiesrepo "bookery/internal/facilities/repository"
	holdsrepo "bookery/internal/holds/repository"
	holdsservice "bookery/internal/holds/service"
	holdsvalidator "bookery/internal/holds/validator"
	reservationsrepo "bookery/internal/reservations/repository"
	"bookery/pkg/config"
	"bookery/pkg/kafka"
	kafka_config "bookery/pkg/kafka/config"
)

const ServiceName = "holdsweep"

// holdsweep runs one expiry sweep and exits; an external scheduler owns the
// cadence.
func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.Log.Info("Starting hold expiry sweep")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	var publisher kafka.Publisher
	kafkaCfg := kafka_config.Load()
	if kafkaCfg.Enabled {
		if err := kafkaCfg.Validate(); err != nil {
			cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
		}
		producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.EventsTopic, kafkaCfg.EventsDLQTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Warn("Failed to close Kafka producer", "error", err)
			}
		}()
		publisher = producer
	}

	holdService := holdsservice.NewTemporaryReservationService(
		holdsrepo.NewMongoTemporaryReservationRepository(cfg),
		reservationsrepo.NewMongoReservationRepository(cfg),
		facilitiesrepo.NewMongoFacilityRepository(cfg),
		facilitiesrepo.NewMongoFacilityTypeRepository(cfg),
		holdsvalidator.NewTemporaryReservationValidator(cfg.Log),
		publisher,
		cfg,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	count, err := holdService.CleanupExpired(ctx)
	if err != nil {
		cfg.Log.Fatal("Hold expiry sweep failed", "error", err)
	}

	cfg.Log.Info("Hold expiry sweep finished", "expired_count", count)
}
