package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/crypto"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/retry"
	"github.com/MKhiriev/go-offline-sync/internal/store"
)

// ClientServices groups the sync core's services into a single value that
// can be passed around the application layer.
type ClientServices struct {
	Queue     OperationQueue
	Engine    SyncEngine
	Resolver  ConflictResolver
	Transfer  FileTransferService
	Migration MigrationService
	SyncJob   ClientSyncJob
}

// ServicesOptions aggregates the tunables of every service.
type ServicesOptions struct {
	Platform          string
	AppVersion        string
	Concurrency       int
	CompressThreshold int
	RetryPolicy       retry.Policy
	Resolver          ResolverOptions
}

// NewClientServices wires the services to their collaborators in dependency
// order: queue over storage, engine over queue+adapter+resolver, transfer
// over adapter+hasher, migration over storage+hasher+platform.
func NewClientServices(ctx context.Context, localStore store.Storage, serverAdapter adapter.ServerAdapter, hasher crypto.Hasher, opts ServicesOptions, log *logger.Logger) (*ClientServices, error) {
	queue, err := NewOperationQueue(ctx, localStore, log)
	if err != nil {
		return nil, fmt.Errorf("create operation queue: %w", err)
	}

	resolver := NewConflictResolver(opts.Resolver)
	engine := NewSyncEngine(queue, serverAdapter, resolver, EngineOptions{
		Concurrency: opts.Concurrency,
		RetryPolicy: opts.RetryPolicy,
	}, log)
	transfer := NewFileTransferService(serverAdapter, hasher, TransferOptions{
		Concurrency: opts.Concurrency,
		RetryPolicy: opts.RetryPolicy,
	}, log)
	migration := NewMigrationService(localStore, hasher, PlatformFor(opts.Platform), MigrationOptions{
		AppVersion:        opts.AppVersion,
		DeviceID:          serverAdapter.DeviceID(),
		CompressThreshold: opts.CompressThreshold,
	}, log)

	return &ClientServices{
		Queue:     queue,
		Engine:    engine,
		Resolver:  resolver,
		Transfer:  transfer,
		Migration: migration,
		SyncJob:   NewClientSyncJob(engine),
	}, nil
}
