package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bookery"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Front-desk holds expire after ten minutes unless confirmed; the sweep
	// cadence is expected to match.
	DefaultHoldDuration = 10 * time.Minute

	DefaultAssignmentTimeout  = 10 * time.Second
	DefaultBatchAssignTimeout = 30 * time.Second
	DefaultMaxBatchAssign     = 50

	DefaultPaginationLimit = 100
)
