package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-offline-sync/models"
)

// OperationQueue owns the pending-mutation lifecycle. Operations are
// persisted through the storage collaborator so a crash or restart never
// loses queued local edits. All state transitions go through the queue's
// methods; callers never mutate a stored operation directly.
type OperationQueue interface {
	// AddOperation validates op, assigns an id when absent, persists it,
	// and appends it to the pending set. Re-adding a completed operation
	// id is a no-op. Malformed operations fail with a validation error
	// and are never retried.
	AddOperation(ctx context.Context, op models.SyncOperation) (models.SyncOperation, error)

	// GetPendingOperations returns pending operations ordered by ascending
	// timestamp, preserving the causal intent of local edits.
	GetPendingOperations(ctx context.Context) ([]models.SyncOperation, error)

	// Get returns one operation by id.
	Get(ctx context.Context, id string) (models.SyncOperation, error)

	// MarkInFlight, Requeue, and Complete drive the per-operation state
	// machine on behalf of the sync engine.
	MarkInFlight(ctx context.Context, id string) error
	Requeue(ctx context.Context, op models.SyncOperation) error
	Complete(ctx context.Context, id string) error

	// Fail records a permanently failed operation and removes it from the
	// pending set.
	Fail(ctx context.Context, id string) error
}

// SyncEngine orchestrates sync cycles. Only one cycle runs at a time; a
// trigger arriving while a cycle is active is coalesced, not queued.
type SyncEngine interface {
	// PerformSync drains the pending queue with bounded parallelism.
	// If the device is offline it returns immediately with an Offline
	// result and no error.
	PerformSync(ctx context.Context) (models.SyncResult, error)

	// AbortSync cancels the in-progress cycle, if any.
	AbortSync()
}

// ConflictResolver resolves a detected divergence into a single value. It is
// a pure function over the conflict: no side effects, no persistence. The
// sync engine persists the resolution and requeues the operation.
type ConflictResolver interface {
	Resolve(conflict models.ConflictData) (models.Resolution, error)
}

// FileTransferService moves large binary payloads in independently
// verifiable chunks. It is used by the sync engine for attachments but is
// usable standalone.
type FileTransferService interface {
	// ChunkFile splits payload into ceil(len/chunkSize) ordered chunks,
	// compressing each only when compression wins, and computes per-chunk
	// and file-level checksums.
	ChunkFile(name, mimeType string, payload []byte, chunkSize int) (models.ChunkedFile, error)

	// UploadFile uploads all chunks with bounded parallelism and then
	// asks the server to verify the reconstructed checksum. A verify
	// mismatch fails the transfer; it is never accepted silently.
	UploadFile(ctx context.Context, file *models.ChunkedFile, progress models.ProgressFunc) error

	// ResumeUpload queries which chunks the server already holds and
	// uploads only the missing ones.
	ResumeUpload(ctx context.Context, file *models.ChunkedFile, progress models.ProgressFunc) error

	// AbortUpload cancels all in-flight requests for fileID and clears
	// local tracking state. A fileID with no tracked transfer reports
	// [ErrTransferNotFound].
	AbortUpload(fileID string) error

	// DownloadFile fetches metadata and chunks, verifies them, and
	// reassembles the payload in order.
	DownloadFile(ctx context.Context, fileID string, progress models.ProgressFunc) ([]byte, error)
}

// MigrationService exports and imports the entire offline store as a
// versioned, checksummed package for cross-platform transfer.
type MigrationService interface {
	ExportData(ctx context.Context, opts ExportOptions) (models.MigrationPackage, error)
	ImportData(ctx context.Context, pkg models.MigrationPackage, opts ImportOptions) (models.ImportResult, error)

	// ValidateMigrationData verifies the package checksum and required
	// fields. Returned warnings are non-fatal heuristics (e.g. the
	// declared platform tag not matching the data's apparent shape).
	ValidateMigrationData(pkg models.MigrationPackage) ([]string, error)

	GenerateMigrationReport() models.MigrationReport
}

// Platform supplies the narrow deployment-target-specific operations of the
// migration tool. The shared queue/checksum/compression logic lives in the
// migration service; variants implement only shape translation and
// validation.
type Platform interface {
	Name() string

	// Validate rejects values that cannot legally exist on this platform.
	Validate(key, value string) error

	// ExportPrep translates a platform-native value into the neutral
	// package form.
	ExportPrep(key, value string) (string, error)

	// ImportPrep translates a neutral-form value into this platform's
	// native shape.
	ImportPrep(key, value string) (string, error)
}

// ClientSyncJob periodically triggers sync cycles in the background.
type ClientSyncJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}

// ExportOptions controls ExportData.
type ExportOptions struct {
	// IncludeSecureData exports keys under the secure prefix as well.
	// Off by default.
	IncludeSecureData bool

	// Progress, when set, receives stage updates.
	Progress models.ProgressFunc
}

// ImportOptions controls ImportData.
type ImportOptions struct {
	// Overwrite replaces values for keys that already exist in the
	// destination store. When false such keys are skipped and counted.
	Overwrite bool

	// Progress, when set, receives stage updates.
	Progress models.ProgressFunc
}
