// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/models"
)

// OperationKeyPrefix namespaces persisted queue entries inside the shared
// key/value store. Keys under this prefix are internal and are excluded from
// migration exports.
const OperationKeyPrefix = "_sync_op_"

// operationQueue is the concrete [OperationQueue]. The in-memory index is
// the only mutable shared state; it is guarded by mu and mutated exclusively
// through the queue's methods. Every mutation is persisted before the index
// is updated, so a crash can lose at most an in-memory echo, never a queued
// operation.
type operationQueue struct {
	storage store.Storage
	logger  *logger.Logger

	mu   sync.RWMutex
	ops  map[string]models.SyncOperation
	done map[string]string // id → final status (completed/failed)
}

// NewOperationQueue constructs an [OperationQueue] backed by storage and
// loads any operations persisted by a previous run.
func NewOperationQueue(ctx context.Context, storage store.Storage, log *logger.Logger) (OperationQueue, error) {
	q := &operationQueue{
		storage: storage,
		logger:  log,
		ops:     make(map[string]models.SyncOperation),
		done:    make(map[string]string),
	}

	if err := q.load(ctx); err != nil {
		return nil, fmt.Errorf("load persisted operations: %w", err)
	}

	return q, nil
}

func (q *operationQueue) load(ctx context.Context) error {
	keys, err := q.storage.GetAllKeys(ctx)
	if err != nil {
		return fmt.Errorf("list storage keys: %w", err)
	}

	for _, key := range keys {
		if !strings.HasPrefix(key, OperationKeyPrefix) {
			continue
		}

		raw, err := q.storage.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read operation %s: %w", key, err)
		}

		var op models.SyncOperation
		if err = json.Unmarshal([]byte(raw), &op); err != nil {
			q.logger.Err(err).Str("key", key).Msg("skipping undecodable persisted operation")
			continue
		}

		// In-flight markers from a crashed cycle go back to pending.
		if op.Status == models.OperationInFlight {
			op.Status = models.OperationPending
		}
		q.ops[op.ID] = op
	}

	return nil
}

// AddOperation implements [OperationQueue].
func (q *operationQueue) AddOperation(ctx context.Context, op models.SyncOperation) (models.SyncOperation, error) {
	if err := validateOperation(op); err != nil {
		return models.SyncOperation{}, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if op.ID != "" {
		// Idempotence: re-adding an id that already completed (or exists)
		// is a no-op.
		if _, finished := q.done[op.ID]; finished {
			return op, nil
		}
		if existing, ok := q.ops[op.ID]; ok {
			return existing, nil
		}
	} else {
		op.ID = newOperationID()
	}

	if op.Timestamp.IsZero() {
		op.Timestamp = time.Now().UTC()
	}
	op.Status = models.OperationPending
	op.RetryCount = 0

	if err := q.persist(ctx, op); err != nil {
		return models.SyncOperation{}, err
	}
	q.ops[op.ID] = op

	q.logger.Debug().
		Str("operation_id", op.ID).
		Str("type", op.Type).
		Str("table", op.TableName).
		Msg("operation queued")

	return op, nil
}

// GetPendingOperations implements [OperationQueue]. Ascending timestamp
// order preserves the causal intent of local edits; equal timestamps are
// tie-broken by id for determinism.
func (q *operationQueue) GetPendingOperations(_ context.Context) ([]models.SyncOperation, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	pending := make([]models.SyncOperation, 0, len(q.ops))
	for _, op := range q.ops {
		if op.Status == models.OperationPending {
			pending = append(pending, op)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Timestamp.Equal(pending[j].Timestamp) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].Timestamp.Before(pending[j].Timestamp)
	})

	return pending, nil
}

// Get implements [OperationQueue].
func (q *operationQueue) Get(_ context.Context, id string) (models.SyncOperation, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	op, ok := q.ops[id]
	if !ok {
		return models.SyncOperation{}, ErrOperationNotFound
	}
	return op, nil
}

// MarkInFlight implements [OperationQueue].
func (q *operationQueue) MarkInFlight(ctx context.Context, id string) error {
	return q.transition(ctx, id, func(op *models.SyncOperation) {
		op.Status = models.OperationInFlight
	})
}

// Requeue implements [OperationQueue]. It writes op back as pending with its
// (possibly merged) data and bumped retry count.
func (q *operationQueue) Requeue(ctx context.Context, op models.SyncOperation) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.ops[op.ID]; !ok {
		return ErrOperationNotFound
	}

	op.Status = models.OperationPending
	if err := q.persist(ctx, op); err != nil {
		return err
	}
	q.ops[op.ID] = op

	return nil
}

// Complete implements [OperationQueue]. Completed operations are destroyed:
// removed from the store and the pending index, remembered only for
// idempotence checks.
func (q *operationQueue) Complete(ctx context.Context, id string) error {
	return q.finish(ctx, id, models.OperationCompleted)
}

// Fail implements [OperationQueue].
func (q *operationQueue) Fail(ctx context.Context, id string) error {
	return q.finish(ctx, id, models.OperationFailed)
}

func (q *operationQueue) finish(ctx context.Context, id, status string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.ops[id]; !ok {
		return ErrOperationNotFound
	}

	if err := q.storage.Remove(ctx, OperationKeyPrefix+id); err != nil {
		return fmt.Errorf("remove operation %s: %w", id, err)
	}
	delete(q.ops, id)
	q.done[id] = status

	return nil
}

func (q *operationQueue) transition(ctx context.Context, id string, mutate func(*models.SyncOperation)) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	op, ok := q.ops[id]
	if !ok {
		return ErrOperationNotFound
	}

	mutate(&op)
	if err := q.persist(ctx, op); err != nil {
		return err
	}
	q.ops[id] = op

	return nil
}

// persist writes op under its queue key. Callers hold q.mu.
func (q *operationQueue) persist(ctx context.Context, op models.SyncOperation) error {
	payload, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("encode operation %s: %w", op.ID, err)
	}
	if err = q.storage.Set(ctx, OperationKeyPrefix+op.ID, string(payload)); err != nil {
		return fmt.Errorf("persist operation %s: %w", op.ID, err)
	}
	return nil
}

func validateOperation(op models.SyncOperation) error {
	if !models.ValidOperationType(op.Type) {
		return ErrValidationNoOperationType
	}
	if strings.TrimSpace(op.TableName) == "" {
		return ErrValidationNoTableName
	}
	if strings.TrimSpace(op.RecordID) == "" {
		return ErrValidationNoRecordID
	}
	if op.Type != models.OperationDelete && len(op.Data) == 0 {
		return ErrValidationEmptyPayload
	}
	return nil
}

func newOperationID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
