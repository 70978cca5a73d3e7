package models

import "time"

// MigrationFormatVersion identifies the migration package layout. The package
// shape must stay backward-compatible across versions: packages may be created
// on one app version and consumed on another.
const MigrationFormatVersion = "1.0"

// ExportedValue is one storage value inside a migration package. Value is the
// neutral-form payload; when Compressed is set it is a base64-encoded gzip of
// that payload.
type ExportedValue struct {
	Value      string `json:"value"`
	Compressed bool   `json:"compressed,omitempty"`
}

// MigrationMetadata carries descriptive, non-essential package information.
type MigrationMetadata struct {
	AppVersion         string `json:"app_version,omitempty"`
	DeviceID           string `json:"device_id,omitempty"`
	KeyCount           int    `json:"key_count"`
	TotalSize          int64  `json:"total_size"`
	IncludesSecureData bool   `json:"includes_secure_data"`
}

// MigrationPackage is a versioned, checksummed serialization of an entire
// offline store for cross-platform transfer. Checksum is computed over the
// canonical JSON encoding of Data and must be verified before any destination
// write — the package is never partially trusted.
type MigrationPackage struct {
	Version   string                   `json:"version"`
	Platform  string                   `json:"platform"`
	Timestamp time.Time                `json:"timestamp"`
	Data      map[string]ExportedValue `json:"data"`
	Metadata  MigrationMetadata        `json:"metadata"`
	Checksum  string                   `json:"checksum"`
}

// ImportError describes one per-key import failure. Recoverable failures can
// be retried by importing the same package again; unrecoverable ones indicate
// malformed package content for that key.
type ImportError struct {
	Key         string `json:"key"`
	Error       string `json:"error"`
	Recoverable bool   `json:"recoverable"`
}

// ImportResult reports the outcome of an import. Success is false if any
// per-key error occurred; a pre-checksum abort is reported as an error from
// ImportData instead, so callers can distinguish "nothing happened yet" from
// "some keys succeeded, some failed" from "everything succeeded".
type ImportResult struct {
	Success  bool          `json:"success"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Warnings []string      `json:"warnings,omitempty"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// MigrationReport aggregates running counters across export/import calls on
// one migration service instance, plus static operational recommendations.
type MigrationReport struct {
	ExportedKeys    int64     `json:"exported_keys"`
	ImportedKeys    int64     `json:"imported_keys"`
	ExportedBytes   int64     `json:"exported_bytes"`
	FailedKeys      int64     `json:"failed_keys"`
	Conflicts       int64     `json:"conflicts"`
	GeneratedAt     time.Time `json:"generated_at"`
	Recommendations []string  `json:"recommendations"`
}
