// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-offline-sync client. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the request hash key,
	// the application version, and the source platform identifier.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds network address and timeout settings for the remote
	// server the client synchronizes with.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds tunables for the background synchronization engine and
	// file transfer paths.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// HashKey is the HMAC key used for request integrity checking
	// (the HashSHA256 header on every outbound request).
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Version is the semantic version string of the running application
	// (e.g. "1.2.3"). Recorded in migration package metadata.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// Platform identifies the source platform of local data
	// ("android", "ios" or "web"). Controls migration envelope handling.
	// Env: APP_PLATFORM
	Platform string `env:"PLATFORM"`
}

// Storage groups the configuration for the local storage backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the path to the SQLite database file used for the key-value
	// store and the persisted operation queue (e.g. "sync.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Adapter holds network settings for the remote server connection.
type Adapter struct {
	// HTTPAddress is the base address of the remote sync server,
	// in "host:port" format (e.g. "localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request before the client cancels it (e.g. "30s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds tunables for the synchronization engine, background sync job,
// and chunked file transfers.
type Sync struct {
	// Interval defines how often the background sync job runs (e.g. "5m").
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// Concurrency bounds the number of operations or chunks processed in
	// parallel during a sync cycle or file transfer.
	// Env: SYNC_CONCURRENCY
	Concurrency int `env:"CONCURRENCY"`

	// MaxRetries is the number of retries applied to a transient failure
	// before an operation is marked failed.
	// Env: SYNC_MAX_RETRIES
	MaxRetries uint64 `env:"MAX_RETRIES"`

	// ChunkSize is the file chunk size in bytes used by the transfer
	// service. Zero means the service default.
	// Env: SYNC_CHUNK_SIZE
	ChunkSize int `env:"CHUNK_SIZE"`

	// CompressThreshold is the minimum serialized value size in bytes at
	// which migration export compresses a value. Zero means the service
	// default.
	// Env: SYNC_COMPRESS_THRESHOLD
	CompressThreshold int `env:"COMPRESS_THRESHOLD"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
