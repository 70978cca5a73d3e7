// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_HASH_KEY": "security_hash",
		"APP_VERSION":  "1.2.3",
		"APP_PLATFORM": "android",

		"ADAPTER_ADDRESS":         "localhost:8080",
		"ADAPTER_REQUEST_TIMEOUT": "30s",

		// Storage has nested prefixes: STORAGE_ + DB_
		"STORAGE_DB_DATABASE_URI": "sync.db",

		"SYNC_INTERVAL":           "5m",
		"SYNC_CONCURRENCY":        "4",
		"SYNC_MAX_RETRIES":        "5",
		"SYNC_CHUNK_SIZE":         "262144",
		"SYNC_COMPRESS_THRESHOLD": "1024",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "security_hash", cfg.App.HashKey)
	assert.Equal(t, "1.2.3", cfg.App.Version)
	assert.Equal(t, "android", cfg.App.Platform)

	assert.Equal(t, "localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)

	assert.Equal(t, "sync.db", cfg.Storage.DB.DSN)

	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 4, cfg.Sync.Concurrency)
	assert.Equal(t, uint64(5), cfg.Sync.MaxRetries)
	assert.Equal(t, 262144, cfg.Sync.ChunkSize)
	assert.Equal(t, 1024, cfg.Sync.CompressThreshold)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"APP_HASH_KEY":    "secret",
		"ADAPTER_ADDRESS": "localhost:8080",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	// App partially filled
	assert.Equal(t, "secret", cfg.App.HashKey)
	assert.Empty(t, cfg.App.Version)
	assert.Empty(t, cfg.App.Platform)

	// Adapter partially filled
	assert.Equal(t, "localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Zero(t, cfg.Adapter.RequestTimeout)

	// Others untouched
	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Equal(t, Sync{}, cfg.Sync)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	// In this version all nested fields are non-pointer values,
	// so "empty" state is represented by zero values.
	assert.Equal(t, "", cfg.JSONFilePath)

	assert.Equal(t, App{}, cfg.App)
	assert.Equal(t, Adapter{}, cfg.Adapter)
	assert.Equal(t, Storage{}, cfg.Storage)
	assert.Equal(t, Sync{}, cfg.Sync)
}

func TestParseEnv_OnlyStorageDB(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"STORAGE_DB_DATABASE_URI": "/var/lib/sync/local.db",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/sync/local.db", cfg.Storage.DB.DSN)
	assert.Equal(t, App{}, cfg.App)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"SYNC_INTERVAL": "invalid_duration",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
	// Error wording may vary depending on parseEnv internals; assert loosely.
	assert.Contains(t, err.Error(), "env")
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"hours", "2h", 2 * time.Hour},
		{"minutes", "45m", 45 * time.Minute},
		{"seconds", "30s", 30 * time.Second},
		{"combined", "1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			envVars := map[string]string{
				"ADAPTER_REQUEST_TIMEOUT": tt.envValue,
			}
			setEnvVars(t, envVars)

			// Act
			cfg := &StructuredConfig{}
			err := parseEnv(cfg)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Adapter.RequestTimeout)
		})
	}
}

// Helpers

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_HASH_KEY",
		"APP_VERSION",
		"APP_PLATFORM",

		"ADAPTER_ADDRESS",
		"ADAPTER_REQUEST_TIMEOUT",

		"STORAGE_DB_DATABASE_URI",

		"SYNC_INTERVAL",
		"SYNC_CONCURRENCY",
		"SYNC_MAX_RETRIES",
		"SYNC_CHUNK_SIZE",
		"SYNC_COMPRESS_THRESHOLD",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
