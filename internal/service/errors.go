package service

import "errors"

// Validation errors: malformed input, never retried.
var (
	ErrValidationNoOperationType = errors.New("operation type is missing or unknown")
	ErrValidationNoTableName     = errors.New("operation table name is required")
	ErrValidationNoRecordID      = errors.New("operation record id is required")
	ErrValidationEmptyPayload    = errors.New("empty payload")
	ErrValidationChunkSize       = errors.New("chunk size must not be negative")

	ErrOperationNotFound = errors.New("sync operation not found")
)

// Integrity errors: checksum mismatches are fatal for their unit of work and
// never silently accepted.
var (
	ErrChunkChecksumMismatch = errors.New("chunk checksum mismatch")
	ErrFileChecksumMismatch  = errors.New("file checksum mismatch")
	ErrPackageChecksum       = errors.New("migration package checksum mismatch")
	ErrPackageIncomplete     = errors.New("migration package is missing required fields")
)

// Sync engine errors.
var (
	// ErrPermanentFailure marks an operation whose retries are exhausted.
	ErrPermanentFailure = errors.New("operation permanently failed")

	// ErrTransferNotFound is returned when aborting a file id with no
	// local tracking state.
	ErrTransferNotFound = errors.New("no tracked transfer for file id")
)
