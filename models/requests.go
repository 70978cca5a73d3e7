package models

import "time"

// Sync wire contract.

// SyncRequest submits one pending operation for remote apply.
type SyncRequest struct {
	Operation SyncOperation `json:"operation"`

	// Hash of the serialized operation — transport integrity check.
	Hash string `json:"hash,omitempty"`
}

// Sync apply outcomes reported by the server.
const (
	SyncStatusOK       = "ok"
	SyncStatusConflict = "conflict"
	SyncStatusError    = "error"
)

// SyncResponse is the server's answer to a SyncRequest. Exactly one of the
// three outcomes applies: success, a conflict payload carrying the
// authoritative remote value, or an error message.
type SyncResponse struct {
	Status   string          `json:"status"`
	Conflict *RemoteConflict `json:"conflict,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// RemoteConflict carries the authoritative remote side of a detected
// divergence. The sync engine combines it with the originating operation to
// build a ConflictData for the resolver.
type RemoteConflict struct {
	Type            string    `json:"type"`
	Field           string    `json:"field"`
	RemoteValue     any       `json:"remote_value"`
	RemoteTimestamp time.Time `json:"remote_timestamp"`
	AncestorValue   any       `json:"ancestor_value,omitempty"`
	HasAncestor     bool      `json:"has_ancestor,omitempty"`
}

// Chunk transfer wire contract.

// ChunkUploadRequest uploads one chunk of a file.
type ChunkUploadRequest struct {
	FileID     string `json:"file_id"`
	Index      int    `json:"index"`
	Checksum   string `json:"checksum"`
	Compressed bool   `json:"compressed"`
	Size       int    `json:"size"`
	Data       string `json:"data"`
}

// VerifyRequest asks the server to revalidate a completed upload: the server
// recomputes the file checksum from the chunk checksums it holds and compares
// it to Checksum.
type VerifyRequest struct {
	FileID      string `json:"file_id"`
	Checksum    string `json:"checksum"`
	TotalChunks int    `json:"total_chunks"`
}

// VerifyResponse reports the server-side verification result. A Valid=false
// response is fatal for the transfer; it must never be accepted as success.
type VerifyResponse struct {
	Valid          bool   `json:"valid"`
	ServerChecksum string `json:"server_checksum,omitempty"`
}

// UploadStatusResponse lists which chunk indexes the server already holds,
// enabling resume without re-transmission of completed chunks.
type UploadStatusResponse struct {
	FileID          string `json:"file_id"`
	ReceivedIndexes []int  `json:"received_indexes"`
	Complete        bool   `json:"complete"`
}
