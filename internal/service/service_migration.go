// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/crypto"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/models"
)

// Key prefixes with special export handling.
const (
	// SecureKeyPrefix marks values that are exported only on explicit
	// request.
	SecureKeyPrefix = "_secure_"

	// SystemKeyPrefix and TempKeyPrefix mark values that never migrate.
	SystemKeyPrefix = "_system_"
	TempKeyPrefix   = "_temp_"
)

// DefaultCompressThreshold is the value size above which exported payloads
// are gzip-compressed.
const DefaultCompressThreshold = 1024

// MigrationOptions configure a migration service instance.
type MigrationOptions struct {
	AppVersion string
	DeviceID   string

	// CompressThreshold is the value size in bytes above which export
	// compresses. Defaults to [DefaultCompressThreshold].
	CompressThreshold int
}

// migrationService is the concrete [MigrationService]. It owns the full
// lifecycle of a migration package from creation to consumption and shares
// no mutable state across calls beyond its running report counters.
type migrationService struct {
	storage  store.Storage
	hasher   crypto.Hasher
	platform Platform
	logger   *logger.Logger

	appVersion        string
	deviceID          string
	compressThreshold int

	exportedKeys  atomic.Int64
	importedKeys  atomic.Int64
	exportedBytes atomic.Int64
	failedKeys    atomic.Int64
	conflicts     atomic.Int64
}

// NewMigrationService constructs a [MigrationService] for the given
// deployment target.
func NewMigrationService(storage store.Storage, hasher crypto.Hasher, platform Platform, opts MigrationOptions, log *logger.Logger) MigrationService {
	if opts.CompressThreshold <= 0 {
		opts.CompressThreshold = DefaultCompressThreshold
	}

	return &migrationService{
		storage:           storage,
		hasher:            hasher,
		platform:          platform,
		logger:            log,
		appVersion:        opts.AppVersion,
		deviceID:          opts.DeviceID,
		compressThreshold: opts.CompressThreshold,
	}
}

// ExportData implements [MigrationService].
//
// System, temporary, and internal queue keys never migrate; secure-prefixed
// keys migrate only when opts.IncludeSecureData is set. Each value is
// normalized to the neutral form by the platform's ExportPrep and compressed
// when larger than the configured threshold. The package checksum covers
// exactly the exported subset.
func (m *migrationService) ExportData(ctx context.Context, opts ExportOptions) (models.MigrationPackage, error) {
	report(opts.Progress, models.Progress{Stage: models.StagePreparing})

	keys, err := m.storage.GetAllKeys(ctx)
	if err != nil {
		return models.MigrationPackage{}, fmt.Errorf("enumerate storage keys: %w", err)
	}

	exportable := make([]string, 0, len(keys))
	for _, key := range keys {
		if isInternalKey(key) {
			continue
		}
		if strings.HasPrefix(key, SecureKeyPrefix) && !opts.IncludeSecureData {
			continue
		}
		exportable = append(exportable, key)
	}

	data := make(map[string]models.ExportedValue, len(exportable))
	var totalSize int64

	for i, key := range exportable {
		if err = ctx.Err(); err != nil {
			return models.MigrationPackage{}, err
		}

		value, err := m.storage.Get(ctx, key)
		if err != nil {
			return models.MigrationPackage{}, fmt.Errorf("read key %s: %w", key, err)
		}

		neutral, err := m.platform.ExportPrep(key, value)
		if err != nil {
			return models.MigrationPackage{}, fmt.Errorf("export prep for %s: %w", key, err)
		}

		exported := models.ExportedValue{Value: neutral}
		if len(neutral) > m.compressThreshold {
			if compressed, ok := compressValue(neutral); ok {
				exported = models.ExportedValue{Value: compressed, Compressed: true}
			}
		}
		data[key] = exported
		totalSize += int64(len(value))

		report(opts.Progress, models.Progress{
			Stage:     models.StageExporting,
			Processed: i + 1,
			Total:     len(exportable),
			Detail:    key,
		})
	}

	report(opts.Progress, models.Progress{Stage: models.StageValidating, Processed: len(exportable), Total: len(exportable)})

	pkg := models.MigrationPackage{
		Version:   models.MigrationFormatVersion,
		Platform:  m.platform.Name(),
		Timestamp: time.Now().UTC(),
		Data:      data,
		Metadata: models.MigrationMetadata{
			AppVersion:         m.appVersion,
			DeviceID:           m.deviceID,
			KeyCount:           len(data),
			TotalSize:          totalSize,
			IncludesSecureData: opts.IncludeSecureData,
		},
	}

	checksum, err := m.checksumOf(pkg.Data)
	if err != nil {
		return models.MigrationPackage{}, fmt.Errorf("compute package checksum: %w", err)
	}
	pkg.Checksum = checksum

	m.exportedKeys.Add(int64(len(data)))
	m.exportedBytes.Add(totalSize)

	report(opts.Progress, models.Progress{Stage: models.StageComplete, Processed: len(exportable), Total: len(exportable)})
	m.logger.Info().Int("keys", len(data)).Int64("bytes", totalSize).Msg("export complete")

	return pkg, nil
}

// ImportData implements [MigrationService].
//
// The checksum gate runs before any destination write: a mismatch aborts the
// whole import with [ErrPackageChecksum] and zero storage mutations. After
// the gate, per-key failures are collected without aborting the rest — the
// result distinguishes "nothing happened" (error return) from partial and
// full success.
func (m *migrationService) ImportData(ctx context.Context, pkg models.MigrationPackage, opts ImportOptions) (models.ImportResult, error) {
	report(opts.Progress, models.Progress{Stage: models.StageValidating, Total: len(pkg.Data)})

	warnings, err := m.ValidateMigrationData(pkg)
	if err != nil {
		report(opts.Progress, models.Progress{Stage: models.StageError, Detail: err.Error()})
		return models.ImportResult{}, err
	}

	result := models.ImportResult{Success: true, Warnings: warnings}
	processed := 0

	for key, exported := range pkg.Data {
		if cerr := ctx.Err(); cerr != nil {
			return result, cerr
		}
		processed++

		neutral := exported.Value
		if exported.Compressed {
			neutral, err = decompressValue(neutral)
			if err != nil {
				m.recordFailure(&result, key, fmt.Errorf("decompress: %w", err), false)
				continue
			}
		}

		native, err := m.platform.ImportPrep(key, neutral)
		if err != nil {
			m.recordFailure(&result, key, fmt.Errorf("import prep: %w", err), false)
			continue
		}

		if verr := m.platform.Validate(key, native); verr != nil {
			m.recordFailure(&result, key, fmt.Errorf("platform validation: %w", verr), false)
			continue
		}

		if !opts.Overwrite {
			if _, gerr := m.storage.Get(ctx, key); gerr == nil {
				result.Skipped++
				m.conflicts.Add(1)
				continue
			}
		}

		if serr := m.storage.Set(ctx, key, native); serr != nil {
			m.recordFailure(&result, key, serr, errors.Is(serr, store.ErrQuotaExceeded))
			continue
		}

		result.Imported++
		m.importedKeys.Add(1)

		report(opts.Progress, models.Progress{
			Stage:     models.StageImporting,
			Processed: processed,
			Total:     len(pkg.Data),
			Detail:    key,
		})
	}

	report(opts.Progress, models.Progress{Stage: models.StageComplete, Processed: processed, Total: len(pkg.Data)})
	m.logger.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("import finished")

	return result, nil
}

// ValidateMigrationData implements [MigrationService]. The checksum and
// required-field checks are fatal; the platform shape check only warns,
// because a mislabelled package may still import correctly.
func (m *migrationService) ValidateMigrationData(pkg models.MigrationPackage) ([]string, error) {
	if pkg.Version == "" || pkg.Platform == "" || pkg.Timestamp.IsZero() || pkg.Data == nil || pkg.Checksum == "" {
		return nil, ErrPackageIncomplete
	}

	checksum, err := m.checksumOf(pkg.Data)
	if err != nil {
		return nil, fmt.Errorf("compute package checksum: %w", err)
	}
	if checksum != pkg.Checksum {
		return nil, fmt.Errorf("%w: declared %s, computed %s", ErrPackageChecksum, pkg.Checksum, checksum)
	}

	var warnings []string
	if apparent := detectPlatform(pkg.Data); apparent != "" && apparent != pkg.Platform {
		warnings = append(warnings, fmt.Sprintf("package declares platform %q but data looks like %q", pkg.Platform, apparent))
	}

	return warnings, nil
}

// GenerateMigrationReport implements [MigrationService].
func (m *migrationService) GenerateMigrationReport() models.MigrationReport {
	report := models.MigrationReport{
		ExportedKeys:  m.exportedKeys.Load(),
		ImportedKeys:  m.importedKeys.Load(),
		ExportedBytes: m.exportedBytes.Load(),
		FailedKeys:    m.failedKeys.Load(),
		Conflicts:     m.conflicts.Load(),
		GeneratedAt:   time.Now().UTC(),
		Recommendations: []string{
			"export regularly so a device loss costs at most one interval of local edits",
			"verify the package checksum on the destination device before deleting the source store",
			"include secure data only when the transfer channel is trusted end to end",
		},
	}

	if report.FailedKeys > 0 {
		report.Recommendations = append(report.Recommendations,
			"re-import the same package to retry recoverable per-key failures")
	}

	return report
}

func (m *migrationService) recordFailure(result *models.ImportResult, key string, err error, recoverable bool) {
	result.Success = false
	result.Failed++
	result.Errors = append(result.Errors, models.ImportError{
		Key:         key,
		Error:       err.Error(),
		Recoverable: recoverable,
	})
	m.failedKeys.Add(1)
	m.logger.Warn().Str("key", key).Err(err).Bool("recoverable", recoverable).Msg("import key failed")
}

// checksumOf hashes the canonical JSON encoding of data. encoding/json
// serializes map keys in sorted order, so the encoding is deterministic
// across platforms and runs.
func (m *migrationService) checksumOf(data map[string]models.ExportedValue) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return m.hasher.Sum(payload), nil
}

func isInternalKey(key string) bool {
	return strings.HasPrefix(key, SystemKeyPrefix) ||
		strings.HasPrefix(key, TempKeyPrefix) ||
		strings.HasPrefix(key, OperationKeyPrefix)
}

func compressValue(value string) (string, bool) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(value)); err != nil {
		zw.Close()
		return "", false
	}
	if err := zw.Close(); err != nil || buf.Len() >= len(value) {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), true
}

func decompressValue(value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("gzip reader: %w", err)
	}
	defer zr.Close()

	content, err := io.ReadAll(zr)
	if err != nil {
		return "", fmt.Errorf("gzip read: %w", err)
	}
	return string(content), nil
}
