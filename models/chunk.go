package models

// FileChunk is a fixed-size, independently verifiable slice of a larger
// binary payload. Data holds the chunk payload encoded as base64; when
// Compressed is set the payload was gzip-compressed before encoding.
type FileChunk struct {
	ID     string `json:"id"`
	FileID string `json:"file_id"`
	Index  int    `json:"index"`
	Data   string `json:"data"`

	// Checksum is computed over the raw (uncompressed) chunk content,
	// so a receiver can verify each chunk independently of transport
	// encoding.
	Checksum string `json:"checksum"`

	// Size is the raw content size in bytes.
	Size int `json:"size"`

	Compressed bool `json:"compressed"`
}

// ChunkedFile describes a large binary payload split for transfer.
//
// Invariants: TotalChunks = ceil(Size/ChunkSize); Checksum is the hash of the
// ordered concatenation of the chunk checksums — never of the raw bytes — so
// the whole file can be verified chunk by chunk without re-reading it.
type ChunkedFile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Size        int64       `json:"size"`
	MimeType    string      `json:"mime_type"`
	TotalChunks int         `json:"total_chunks"`
	ChunkSize   int         `json:"chunk_size"`
	Checksum    string      `json:"checksum"`
	Chunks      []FileChunk `json:"chunks,omitempty"`
}

// FileInfo is the chunk-less metadata view of a ChunkedFile returned by the
// server's metadata endpoint before a download.
type FileInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mime_type"`
	TotalChunks int    `json:"total_chunks"`
	ChunkSize   int    `json:"chunk_size"`
	Checksum    string `json:"checksum"`
}
