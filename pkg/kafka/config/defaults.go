package kafka_config

import "time"

const (
	// Publishing is opt-in; the service runs fine without a broker.
	DefaultKafkaEnabled = false

	// Default Kafka broker
	DefaultKafkaBrokers = "localhost:9092"

	// Producer defaults
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // Require all replicas
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	// Topics
	DefaultEventsTopic    = "bookery.reservations"
	DefaultEventsDLQTopic = "bookery.reservations.dlq"
)
