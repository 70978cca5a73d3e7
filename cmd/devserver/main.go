// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command devserver is an in-memory implementation of the sync wire contract
// for local development and integration testing of clients. It persists
// nothing: restart it to reset state. Conflicts can be staged through the
// /debug endpoints to exercise client-side resolution paths.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/models"
)

func main() {
	addr := flag.String("a", ":8080", "listen address")
	flag.Parse()

	log := logger.NewClientLogger("offline-sync-devserver")
	srv := newDevServer(log)

	log.Info().Str("addr", *addr).Msg("devserver listening")
	if err := http.ListenAndServe(*addr, srv.routes()); err != nil {
		log.Fatal().Err(err).Msg("devserver stopped")
	}
}

// stagedConflict keys a pending conflict response by table and record.
type stagedConflict struct {
	TableName string                `json:"table_name"`
	RecordID  string                `json:"record_id"`
	Conflict  models.RemoteConflict `json:"conflict"`
}

type fileState struct {
	info   models.FileInfo
	chunks map[int]models.FileChunk
}

type devServer struct {
	log *logger.Logger

	mu         sync.Mutex
	operations []models.SyncOperation
	conflicts  map[string]models.RemoteConflict
	files      map[string]*fileState
}

func newDevServer(log *logger.Logger) *devServer {
	return &devServer{
		log:       log,
		conflicts: make(map[string]models.RemoteConflict),
		files:     make(map[string]*fileState),
	}
}

func (s *devServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.health)
	r.Post("/api/sync/operations", s.submitOperation)

	r.Route("/api/files", func(r chi.Router) {
		r.Post("/", s.registerFile)
		r.Post("/chunks", s.uploadChunk)
		r.Route("/{fileID}", func(r chi.Router) {
			r.Get("/", s.fileInfo)
			r.Get("/status", s.uploadStatus)
			r.Get("/chunks/{index}", s.downloadChunk)
			r.Post("/verify", s.verifyFile)
		})
	})

	// Test scaffolding, never part of the production contract.
	r.Post("/debug/conflicts", s.stageConflict)
	r.Get("/debug/operations", s.listOperations)

	return r
}

func (s *devServer) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *devServer) submitOperation(w http.ResponseWriter, r *http.Request) {
	var req models.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	op := req.Operation
	if op.TableName == "" || op.RecordID == "" {
		http.Error(w, "table_name and record_id are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := op.TableName + "/" + op.RecordID
	if conflict, ok := s.conflicts[key]; ok {
		// A staged conflict fires once, mirroring a real server that
		// reports divergence only until the client resubmits the
		// resolved state.
		delete(s.conflicts, key)
		s.log.Info().Str("key", key).Msg("returning staged conflict")
		writeJSON(w, http.StatusConflict, models.SyncResponse{
			Status:   models.SyncStatusConflict,
			Conflict: &conflict,
		})
		return
	}

	s.operations = append(s.operations, op)
	writeJSON(w, http.StatusOK, models.SyncResponse{Status: models.SyncStatusOK})
}

func (s *devServer) stageConflict(w http.ResponseWriter, r *http.Request) {
	var staged stagedConflict
	if err := json.NewDecoder(r.Body).Decode(&staged); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.conflicts[staged.TableName+"/"+staged.RecordID] = staged.Conflict
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
}

func (s *devServer) listOperations(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	ops := make([]models.SyncOperation, len(s.operations))
	copy(ops, s.operations)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, ops)
}

func (s *devServer) registerFile(w http.ResponseWriter, r *http.Request) {
	var info models.FileInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if info.ID == "" {
		http.Error(w, "file id is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.files[info.ID] = &fileState{info: info, chunks: make(map[int]models.FileChunk)}
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
}

func (s *devServer) uploadChunk(w http.ResponseWriter, r *http.Request) {
	var req models.ChunkUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.FileID == "" || req.Checksum == "" {
		http.Error(w, "file_id and checksum are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[req.FileID]
	if !ok {
		// Unregistered uploads are accepted too: the client may upload
		// before posting metadata.
		file = &fileState{
			info:   models.FileInfo{ID: req.FileID},
			chunks: make(map[int]models.FileChunk),
		}
		s.files[req.FileID] = file
	}

	file.chunks[req.Index] = models.FileChunk{
		FileID:     req.FileID,
		Index:      req.Index,
		Data:       req.Data,
		Checksum:   req.Checksum,
		Size:       req.Size,
		Compressed: req.Compressed,
	}

	w.WriteHeader(http.StatusOK)
}

func (s *devServer) verifyFile(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fileID := chi.URLParam(r, "fileID")

	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[fileID]
	if !ok {
		http.Error(w, "unknown file", http.StatusNotFound)
		return
	}

	valid := len(file.chunks) == req.TotalChunks && req.Checksum != ""
	if valid {
		// The declared checksum becomes authoritative for downloads.
		file.info.Checksum = req.Checksum
		file.info.TotalChunks = req.TotalChunks
	}

	writeJSON(w, http.StatusOK, models.VerifyResponse{
		Valid:          valid,
		ServerChecksum: file.info.Checksum,
	})
}

func (s *devServer) uploadStatus(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[fileID]
	if !ok {
		http.Error(w, "unknown file", http.StatusNotFound)
		return
	}

	indexes := make([]int, 0, len(file.chunks))
	for index := range file.chunks {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	writeJSON(w, http.StatusOK, models.UploadStatusResponse{
		FileID:          fileID,
		ReceivedIndexes: indexes,
		Complete:        file.info.TotalChunks > 0 && len(file.chunks) == file.info.TotalChunks,
	})
}

func (s *devServer) fileInfo(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[fileID]
	if !ok {
		http.Error(w, "unknown file", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, file.info)
}

func (s *devServer) downloadChunk(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid chunk index", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[fileID]
	if !ok {
		http.Error(w, "unknown file", http.StatusNotFound)
		return
	}
	chunk, ok := file.chunks[index]
	if !ok {
		http.Error(w, "unknown chunk", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, chunk)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
