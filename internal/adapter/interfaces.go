package adapter

import (
	"context"

	"github.com/MKhiriev/go-offline-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// ServerAdapter is the outbound transport boundary of the sync core. It
// covers the whole wire contract: connectivity probing, operation submission,
// and the chunk transfer endpoints. Every call honours ctx cancellation and
// carries the adapter's request timeout; a timeout is reported the same way
// as any other network error.
type ServerAdapter interface {
	// Ping probes connectivity. A non-nil error means the device is
	// offline (or the endpoint is unreachable, which the sync engine
	// treats the same way).
	Ping(ctx context.Context) error

	// SetToken stores the bearer token used on authenticated requests.
	SetToken(token string)
	// Token returns the currently held bearer token, empty if none.
	Token() string
	// DeviceID returns the device identifier claim of the held token,
	// empty if no token is set or the claim cannot be parsed.
	DeviceID() string

	// SubmitOperation applies one pending operation remotely. Three
	// outcomes: (nil, nil) on success; a non-nil conflict payload when the
	// server reports divergence; a non-nil error otherwise.
	SubmitOperation(ctx context.Context, op models.SyncOperation) (*models.RemoteConflict, error)

	// UploadChunk uploads a single chunk.
	UploadChunk(ctx context.Context, req models.ChunkUploadRequest) error
	// VerifyFile asks the server to revalidate a completed upload.
	VerifyFile(ctx context.Context, req models.VerifyRequest) (models.VerifyResponse, error)
	// UploadStatus reports which chunk indexes the server already holds.
	UploadStatus(ctx context.Context, fileID string) (models.UploadStatusResponse, error)
	// FileInfo fetches file metadata for a download.
	FileInfo(ctx context.Context, fileID string) (models.FileInfo, error)
	// DownloadChunk fetches one chunk by index.
	DownloadChunk(ctx context.Context, fileID string, index int) (models.FileChunk, error)
}
