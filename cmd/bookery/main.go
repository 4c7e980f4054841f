package main

import (
	"context"

	assignmenthandler "bookery/internal/assignment/handler"
	assignmentservice "bookery/internal/assignment/service"
	availabilityhandler "bookery/internal/availability/handler"
	availabilityservice "bookery/internal/availability/service"
	facilitieshandler "bookery/internal/facilities/handler"
	facilitiesrepo "bookery/internal/facilities/repository"
	facilitiesservice "bookery/internal/facilities/service"
	facilitiesvalidator "bookery/internal/facilities/validator"
	holdshandler "bookery/internal/holds/handler"
	holdsrepo "bookery/internal/holds/repository"
	holdsservice "bookery/internal/holds/service"
	holdsvalidator "bookery/internal/holds/validator"
	pricinghandler "bookery/internal/pricing/handler"
	pricingservice "bookery/internal/pricing/service"
	reservationshandler "bookery/internal/reservations/handler"
	reservationsrepo "bookery/internal/reservations/repository"
	reservationsservice "bookery/internal/reservations/service"
	reservationsvalidator "bookery/internal/reservations/validator"
	"bookery/pkg/app"
	"bookery/pkg/config"
	"bookery/pkg/contracts"
	"bookery/pkg/kafka"
	kafka_config "bookery/pkg/kafka/config"
	kafkamiddleware "bookery/pkg/kafka/middleware"
)

const ServiceName = "bookery"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Bookery service")
	cfg.SetMongo()

	producer := initProducer(cfg)
	handlers := initServices(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.Run()

	if producer != nil {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	}
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	if !kafkaCfg.Enabled {
		cfg.Log.Info("Kafka publishing disabled")
		return nil
	}

	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.EventsTopic, kafkaCfg.EventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware())
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) []contracts.Handler {
	// *kafka.Producer satisfies kafka.Publisher; a nil interface keeps
	// publishing off when Kafka is disabled.
	var publisher kafka.Publisher
	if producer != nil {
		publisher = producer
	}

	facilityRepo := facilitiesrepo.NewMongoFacilityRepository(cfg)
	typeRepo := facilitiesrepo.NewMongoFacilityTypeRepository(cfg)
	maintRepo := facilitiesrepo.NewMongoMaintenanceRepository(cfg)
	rateRepo := facilitiesrepo.NewMongoRateTypeRepository(cfg)
	reservationRepo := reservationsrepo.NewMongoReservationRepository(cfg)
	holdRepo := holdsrepo.NewMongoTemporaryReservationRepository(cfg)

	if err := reservationRepo.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to ensure reservation indexes", "error", err)
	}

	facilityService := facilitiesservice.NewFacilityService(
		facilityRepo,
		typeRepo,
		maintRepo,
		rateRepo,
		facilitiesvalidator.NewFacilityValidator(cfg.Log),
		facilitiesvalidator.NewFacilityTypeValidator(cfg.Log),
		cfg,
	)
	reservationService := reservationsservice.NewReservationService(
		reservationRepo,
		reservationsvalidator.NewReservationValidator(cfg.Log),
		publisher,
		cfg,
	)
	availabilityService := availabilityservice.NewAvailabilityService(
		typeRepo,
		facilityRepo,
		maintRepo,
		reservationRepo,
		cfg,
	)
	assignmentService := assignmentservice.NewAssignmentService(
		reservationRepo,
		facilityRepo,
		typeRepo,
		maintRepo,
		publisher,
		cfg,
	)
	holdService := holdsservice.NewTemporaryReservationService(
		holdRepo,
		reservationRepo,
		facilityRepo,
		typeRepo,
		holdsvalidator.NewTemporaryReservationValidator(cfg.Log),
		publisher,
		cfg,
	)
	pricingService := pricingservice.NewPricingService(typeRepo, rateRepo, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		facilitieshandler.NewFacilityHandler(facilityService, cfg.Log),
		reservationshandler.NewReservationHandler(reservationService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		assignmenthandler.NewAssignmentHandler(assignmentService, cfg.Log),
		holdshandler.NewTemporaryReservationHandler(holdService, cfg.Log),
		pricinghandler.NewPricingHandler(pricingService, cfg.Log),
	}
}
