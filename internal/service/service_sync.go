// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/retry"
	"github.com/MKhiriev/go-offline-sync/models"
)

// EngineOptions tune the sync engine. Zero values fall back to defaults.
type EngineOptions struct {
	// Concurrency bounds how many operations are applied remotely at
	// once. Defaults to 3; kept small to avoid overwhelming the remote
	// endpoint.
	Concurrency int

	// RetryPolicy drives per-operation backoff.
	RetryPolicy retry.Policy
}

// syncEngine is the concrete [SyncEngine]. A single mutex makes sync cycles
// mutually exclusive: a trigger that arrives while a cycle is running is
// coalesced (dropped) instead of queued, so duplicate triggers never cause
// duplicate network traffic.
type syncEngine struct {
	queue    OperationQueue
	adapter  adapter.ServerAdapter
	resolver ConflictResolver
	logger   *logger.Logger

	concurrency int
	retryPolicy retry.Policy

	cycleMu sync.Mutex

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// NewSyncEngine constructs a [SyncEngine] from its collaborators.
func NewSyncEngine(queue OperationQueue, serverAdapter adapter.ServerAdapter, resolver ConflictResolver, opts EngineOptions, log *logger.Logger) SyncEngine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	if opts.RetryPolicy == (retry.Policy{}) {
		opts.RetryPolicy = retry.DefaultPolicy()
	}

	return &syncEngine{
		queue:       queue,
		adapter:     serverAdapter,
		resolver:    resolver,
		logger:      log,
		concurrency: opts.Concurrency,
		retryPolicy: opts.RetryPolicy,
	}
}

// PerformSync implements [SyncEngine].
//
// Offline is not a failure: when the connectivity probe fails the cycle
// returns immediately with an Offline result and a nil error. Operations are
// launched in ascending timestamp order under a bounded worker pool; one
// operation's failure never aborts the batch.
func (e *syncEngine) PerformSync(ctx context.Context) (models.SyncResult, error) {
	if !e.cycleMu.TryLock() {
		return models.SyncResult{Coalesced: true}, nil
	}
	defer e.cycleMu.Unlock()

	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.setCancel(cancel)
	defer e.setCancel(nil)

	if err := e.adapter.Ping(cycleCtx); err != nil {
		e.logger.Debug().Err(err).Msg("connectivity check failed; staying offline")
		return models.SyncResult{Offline: true}, nil
	}

	ops, err := e.queue.GetPendingOperations(cycleCtx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("get pending operations: %w", err)
	}

	var (
		result models.SyncResult
		mu     sync.Mutex
	)

	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)

	for _, op := range ops {
		op := op
		g.Go(func() error {
			e.processOperation(cycleCtx, op, &result, &mu)
			return nil
		})
	}
	// Workers report through result, never through errors: a failed
	// operation must not cancel its siblings.
	_ = g.Wait()

	e.logger.Info().
		Int("completed", len(result.Completed)).
		Int("conflicted", len(result.Conflicted)).
		Int("failed", len(result.Failed)).
		Msg("sync cycle finished")

	return result, nil
}

// AbortSync implements [SyncEngine].
func (e *syncEngine) AbortSync() {
	e.cancelMu.Lock()
	cancel := e.cancel
	e.cancelMu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (e *syncEngine) setCancel(cancel context.CancelFunc) {
	e.cancelMu.Lock()
	e.cancel = cancel
	e.cancelMu.Unlock()
}

func (e *syncEngine) processOperation(ctx context.Context, op models.SyncOperation, result *models.SyncResult, mu *sync.Mutex) {
	log := e.logger.GetChildLogger()

	if err := e.queue.MarkInFlight(ctx, op.ID); err != nil {
		log.Err(err).Str("operation_id", op.ID).Msg("mark in-flight failed")
		return
	}

	var (
		conflict *models.RemoteConflict
		attempts int
	)
	err := retry.Do(ctx, e.retryPolicy, func(ctx context.Context) error {
		attempts++
		c, submitErr := e.adapter.SubmitOperation(ctx, op)
		if submitErr != nil {
			if errors.Is(submitErr, adapter.ErrNetwork) {
				return retry.Retryable(submitErr)
			}
			return submitErr
		}
		conflict = c
		return nil
	})
	op.RetryCount += attempts - 1

	mu.Lock()
	defer mu.Unlock()

	switch {
	case err == nil && conflict == nil:
		if cerr := e.queue.Complete(ctx, op.ID); cerr != nil {
			log.Err(cerr).Str("operation_id", op.ID).Msg("complete failed")
			return
		}
		result.Completed = append(result.Completed, op.ID)

	case err == nil:
		e.handleConflict(ctx, op, conflict, result, log)

	case ctx.Err() != nil:
		// Aborted cycle: the operation stays pending for the next run.
		if rerr := e.queue.Requeue(ctx, op); rerr != nil {
			log.Err(rerr).Str("operation_id", op.ID).Msg("requeue after abort failed")
		}

	default:
		// Validation and auth errors are permanent immediately; network
		// errors are permanent once retries are exhausted.
		if ferr := e.queue.Fail(ctx, op.ID); ferr != nil {
			log.Err(ferr).Str("operation_id", op.ID).Msg("fail transition failed")
			return
		}
		log.Warn().
			Str("operation_id", op.ID).
			Int("attempts", attempts).
			Err(err).
			Msg("operation permanently failed")
		result.Failed = append(result.Failed, models.FailedOperation{
			OperationID: op.ID,
			Attempts:    attempts,
			Error:       fmt.Errorf("%w: %w", ErrPermanentFailure, err).Error(),
		})
	}
}

// handleConflict routes a divergence through the resolver, applies the
// resolution to the operation's data, and requeues it. Callers hold the
// result mutex.
func (e *syncEngine) handleConflict(ctx context.Context, op models.SyncOperation, rc *models.RemoteConflict, result *models.SyncResult, log *logger.Logger) {
	cd := buildConflictData(op, rc)

	res, err := e.resolver.Resolve(cd)
	if err != nil {
		if ferr := e.queue.Fail(ctx, op.ID); ferr != nil {
			log.Err(ferr).Str("operation_id", op.ID).Msg("fail transition failed")
			return
		}
		result.Failed = append(result.Failed, models.FailedOperation{
			OperationID: op.ID,
			Attempts:    1,
			Error:       fmt.Sprintf("resolve conflict: %v", err),
		})
		return
	}

	if !res.Resolved {
		// Manual strategy: the operation stays pending until a value is
		// supplied out of band.
		if rerr := e.queue.Requeue(ctx, op); rerr != nil {
			log.Err(rerr).Str("operation_id", op.ID).Msg("requeue unresolved failed")
			return
		}
		result.Unresolved = append(result.Unresolved, op.ID)
		return
	}

	if res.Deleted {
		op.Type = models.OperationDelete
		op.Data = nil
	} else {
		// A delete that lost to an update must resubmit as an update:
		// requeuing it as a delete would destroy the surviving value.
		if op.Type == models.OperationDelete {
			op.Type = models.OperationUpdate
		}
		if op.Data == nil {
			op.Data = make(map[string]any, 1)
		}
		op.Data[cd.Field] = res.Value
	}
	op.Timestamp = time.Now().UTC()

	if rerr := e.queue.Requeue(ctx, op); rerr != nil {
		log.Err(rerr).Str("operation_id", op.ID).Msg("requeue resolved failed")
		return
	}

	log.Info().
		Str("operation_id", op.ID).
		Str("strategy", res.Strategy).
		Str("winner", res.Winner).
		Msg("conflict resolved, operation requeued")
	result.Conflicted = append(result.Conflicted, op.ID)
}

func buildConflictData(op models.SyncOperation, rc *models.RemoteConflict) models.ConflictData {
	conflictType := rc.Type
	if conflictType == "" {
		conflictType = models.ConflictUpdateUpdate
	}

	var localValue any
	if op.Data != nil {
		localValue = op.Data[rc.Field]
	}

	return models.ConflictData{
		ID:              uuid.NewString(),
		Type:            conflictType,
		TableName:       op.TableName,
		RecordID:        op.RecordID,
		Field:           rc.Field,
		LocalValue:      localValue,
		RemoteValue:     rc.RemoteValue,
		AncestorValue:   rc.AncestorValue,
		HasAncestor:     rc.HasAncestor,
		LocalTimestamp:  op.Timestamp,
		RemoteTimestamp: rc.RemoteTimestamp,
		Status:          models.ConflictPending,
	}
}
