// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/crypto"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/retry"
	"github.com/MKhiriev/go-offline-sync/models"
)

// DefaultChunkSize is used when ChunkFile receives a zero size.
const DefaultChunkSize = 256 * 1024

// TransferOptions tune the chunked transfer service.
type TransferOptions struct {
	// Concurrency bounds parallel chunk uploads. Defaults to 3.
	Concurrency int

	// RetryPolicy drives per-chunk backoff.
	RetryPolicy retry.Policy
}

// fileTransferService is the concrete [FileTransferService]. The transfers
// map is the service's only mutable shared state: it tracks the cancel
// function of every in-flight upload so AbortUpload can stop it, and is
// mutated only under mu.
type fileTransferService struct {
	adapter adapter.ServerAdapter
	hasher  crypto.Hasher
	logger  *logger.Logger

	concurrency int
	retryPolicy retry.Policy

	mu        sync.Mutex
	transfers map[string]context.CancelFunc
}

// NewFileTransferService constructs a [FileTransferService].
func NewFileTransferService(serverAdapter adapter.ServerAdapter, hasher crypto.Hasher, opts TransferOptions, log *logger.Logger) FileTransferService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	if opts.RetryPolicy == (retry.Policy{}) {
		opts.RetryPolicy = retry.DefaultPolicy()
	}

	return &fileTransferService{
		adapter:     serverAdapter,
		hasher:      hasher,
		logger:      log,
		concurrency: opts.Concurrency,
		retryPolicy: opts.RetryPolicy,
		transfers:   make(map[string]context.CancelFunc),
	}
}

// ChunkFile implements [FileTransferService].
//
// Each chunk's checksum covers the raw content, so receivers can verify
// chunks independently of compression. The file-level checksum is the hash
// of the ordered concatenation of chunk checksums — never of the raw bytes —
// which lets verification proceed chunk by chunk without re-reading the
// whole file.
func (s *fileTransferService) ChunkFile(name, mimeType string, payload []byte, chunkSize int) (models.ChunkedFile, error) {
	if len(payload) == 0 {
		return models.ChunkedFile{}, ErrValidationEmptyPayload
	}
	if chunkSize < 0 {
		return models.ChunkedFile{}, ErrValidationChunkSize
	}
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	fileID := newOperationID()
	total := (len(payload) + chunkSize - 1) / chunkSize

	chunks := make([]models.FileChunk, 0, total)
	checksums := make([]string, 0, total)

	for i := 0; i < total; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		content := payload[start:end]

		checksum := s.hasher.Sum(content)
		encoded, compressed := encodeChunkPayload(content)

		chunks = append(chunks, models.FileChunk{
			ID:         newOperationID(),
			FileID:     fileID,
			Index:      i,
			Data:       encoded,
			Checksum:   checksum,
			Size:       len(content),
			Compressed: compressed,
		})
		checksums = append(checksums, checksum)
	}

	return models.ChunkedFile{
		ID:          fileID,
		Name:        name,
		Size:        int64(len(payload)),
		MimeType:    mimeType,
		TotalChunks: total,
		ChunkSize:   chunkSize,
		Checksum:    s.hasher.SumString(strings.Join(checksums, "")),
		Chunks:      chunks,
	}, nil
}

// UploadFile implements [FileTransferService].
func (s *fileTransferService) UploadFile(ctx context.Context, file *models.ChunkedFile, progress models.ProgressFunc) error {
	return s.upload(ctx, file, nil, progress)
}

// ResumeUpload implements [FileTransferService]. It queries the server for
// already-received chunk indexes and transmits only the missing ones.
func (s *fileTransferService) ResumeUpload(ctx context.Context, file *models.ChunkedFile, progress models.ProgressFunc) error {
	report(progress, models.Progress{Stage: models.StagePreparing, Total: file.TotalChunks})

	status, err := s.adapter.UploadStatus(ctx, file.ID)
	if err != nil {
		return fmt.Errorf("query upload status for %s: %w", file.ID, err)
	}

	received := make(map[int]struct{}, len(status.ReceivedIndexes))
	for _, idx := range status.ReceivedIndexes {
		received[idx] = struct{}{}
	}

	return s.upload(ctx, file, received, progress)
}

// AbortUpload implements [FileTransferService]. It cancels all in-flight
// requests for fileID via the tracked cancellation signal and clears local
// tracking state.
func (s *fileTransferService) AbortUpload(fileID string) error {
	s.mu.Lock()
	cancel, ok := s.transfers[fileID]
	delete(s.transfers, fileID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrTransferNotFound, fileID)
	}

	cancel()
	s.logger.Info().Str("file_id", fileID).Msg("upload aborted")
	return nil
}

func (s *fileTransferService) upload(ctx context.Context, file *models.ChunkedFile, skip map[int]struct{}, progress models.ProgressFunc) error {
	uploadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.transfers[file.ID] = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.transfers, file.ID)
		s.mu.Unlock()
	}()

	var sent atomic.Int64

	// Unlike the sync engine's batch, a chunk that exhausts its retries
	// fails the whole transfer: the file is useless without it. The
	// server-side status query preserves enough state to resume later.
	g, gctx := errgroup.WithContext(uploadCtx)
	g.SetLimit(s.concurrency)

	for i := range file.Chunks {
		chunk := file.Chunks[i]
		if _, done := skip[chunk.Index]; done {
			continue
		}

		g.Go(func() error {
			err := retry.Do(gctx, s.retryPolicy, func(ctx context.Context) error {
				uploadErr := s.adapter.UploadChunk(ctx, models.ChunkUploadRequest{
					FileID:     chunk.FileID,
					Index:      chunk.Index,
					Checksum:   chunk.Checksum,
					Compressed: chunk.Compressed,
					Size:       chunk.Size,
					Data:       chunk.Data,
				})
				if uploadErr != nil && isTransient(uploadErr) {
					return retry.Retryable(uploadErr)
				}
				return uploadErr
			})
			if err != nil {
				return fmt.Errorf("upload chunk %d of %s: %w", chunk.Index, file.ID, err)
			}

			report(progress, models.Progress{
				Stage:     models.StageExporting,
				Processed: int(sent.Add(1)) + len(skip),
				Total:     file.TotalChunks,
				Detail:    file.Name,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		report(progress, models.Progress{Stage: models.StageError, Total: file.TotalChunks, Detail: err.Error()})
		return err
	}

	report(progress, models.Progress{Stage: models.StageValidating, Processed: file.TotalChunks, Total: file.TotalChunks})

	vr, err := s.adapter.VerifyFile(uploadCtx, models.VerifyRequest{
		FileID:      file.ID,
		Checksum:    file.Checksum,
		TotalChunks: file.TotalChunks,
	})
	if err != nil {
		return fmt.Errorf("verify file %s: %w", file.ID, err)
	}
	if !vr.Valid {
		// A verify mismatch after a seemingly complete upload is fatal
		// for this transfer and requires re-upload, never partial
		// acceptance.
		report(progress, models.Progress{Stage: models.StageError, Total: file.TotalChunks, Detail: "checksum mismatch"})
		return fmt.Errorf("%w: file %s: server %s, local %s", ErrFileChecksumMismatch, file.ID, vr.ServerChecksum, file.Checksum)
	}

	report(progress, models.Progress{Stage: models.StageComplete, Processed: file.TotalChunks, Total: file.TotalChunks})
	s.logger.Info().Str("file_id", file.ID).Int("chunks", file.TotalChunks).Msg("upload verified")

	return nil
}

// DownloadFile implements [FileTransferService]. Chunks are fetched in index
// order, verified individually against their checksums, decompressed when
// flagged, and reassembled into a single payload. The reconstructed
// chunk-checksum sequence must reproduce the file-level checksum.
func (s *fileTransferService) DownloadFile(ctx context.Context, fileID string, progress models.ProgressFunc) ([]byte, error) {
	report(progress, models.Progress{Stage: models.StagePreparing})

	info, err := s.adapter.FileInfo(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("file info for %s: %w", fileID, err)
	}

	payload := make([]byte, 0, info.Size)
	checksums := make([]string, 0, info.TotalChunks)

	for index := 0; index < info.TotalChunks; index++ {
		var chunk models.FileChunk
		err = retry.Do(ctx, s.retryPolicy, func(ctx context.Context) error {
			var fetchErr error
			chunk, fetchErr = s.adapter.DownloadChunk(ctx, fileID, index)
			if fetchErr != nil && isTransient(fetchErr) {
				return retry.Retryable(fetchErr)
			}
			return fetchErr
		})
		if err != nil {
			report(progress, models.Progress{Stage: models.StageError, Processed: index, Total: info.TotalChunks, Detail: err.Error()})
			return nil, fmt.Errorf("download chunk %d of %s: %w", index, fileID, err)
		}

		content, err := decodeChunkPayload(chunk.Data, chunk.Compressed)
		if err != nil {
			return nil, fmt.Errorf("decode chunk %d of %s: %w", index, fileID, err)
		}
		if sum := s.hasher.Sum(content); sum != chunk.Checksum {
			return nil, fmt.Errorf("%w: chunk %d of %s", ErrChunkChecksumMismatch, index, fileID)
		}

		payload = append(payload, content...)
		checksums = append(checksums, chunk.Checksum)

		report(progress, models.Progress{
			Stage:     models.StageImporting,
			Processed: index + 1,
			Total:     info.TotalChunks,
			Detail:    info.Name,
		})
	}

	report(progress, models.Progress{Stage: models.StageValidating, Processed: info.TotalChunks, Total: info.TotalChunks})
	if sum := s.hasher.SumString(strings.Join(checksums, "")); sum != info.Checksum {
		return nil, fmt.Errorf("%w: file %s", ErrFileChecksumMismatch, fileID)
	}

	report(progress, models.Progress{Stage: models.StageComplete, Processed: info.TotalChunks, Total: info.TotalChunks})
	return payload, nil
}

// encodeChunkPayload gzips content and keeps the compressed form only when
// it is a net win, then base64-encodes the chosen bytes for JSON transport.
func encodeChunkPayload(content []byte) (string, bool) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(content); err == nil {
		if err = zw.Close(); err == nil && buf.Len() < len(content) {
			return base64.StdEncoding.EncodeToString(buf.Bytes()), true
		}
	} else {
		zw.Close()
	}

	return base64.StdEncoding.EncodeToString(content), false
}

func decodeChunkPayload(data string, compressed bool) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	if !compressed {
		return raw, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer zr.Close()

	content, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip read: %w", err)
	}
	return content, nil
}

func isTransient(err error) bool {
	return errors.Is(err, adapter.ErrNetwork)
}

func report(progress models.ProgressFunc, p models.Progress) {
	if progress != nil {
		progress(p)
	}
}
