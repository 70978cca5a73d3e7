package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// HashKey is the HMAC key used by the client for payload integrity checks.
	HashKey string
	// Version is the application version recorded in migration metadata.
	Version string
	// Platform identifies the source platform of local data.
	Platform string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the HTTP endpoint address of the remote sync server.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite database path used by the client.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSync contains synchronization engine settings.
type ClientSync struct {
	// Interval defines how often the background sync job runs.
	Interval time.Duration
	// Concurrency bounds parallel operations and chunk transfers.
	Concurrency int
	// MaxRetries is the retry count for transient failures.
	MaxRetries uint64
	// ChunkSize is the file chunk size in bytes.
	ChunkSize int
	// CompressThreshold is the compression threshold for migration export.
	CompressThreshold int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Sync contains synchronization engine settings.
	Sync ClientSync
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			HashKey:  cfg.App.HashKey,
			Version:  cfg.App.Version,
			Platform: cfg.App.Platform,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Sync: ClientSync{
			Interval:          cfg.Sync.Interval,
			Concurrency:       cfg.Sync.Concurrency,
			MaxRetries:        cfg.Sync.MaxRetries,
			ChunkSize:         cfg.Sync.ChunkSize,
			CompressThreshold: cfg.Sync.CompressThreshold,
		},
	}

	return clientCfg, clientCfg.validate()
}
