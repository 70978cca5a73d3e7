package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/crypto"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/retry"
	"github.com/MKhiriev/go-offline-sync/internal/service"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("offline-sync-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverAdapter := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Adapter.HTTPAddress,
		HashKey: cfg.App.HashKey,
		Timeout: cfg.Adapter.RequestTimeout,
	})

	localStorage, err := store.NewSQLiteStorage(ctx, cfg.Storage.DB.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	retryPolicy := retry.DefaultPolicy()
	if cfg.Sync.MaxRetries > 0 {
		retryPolicy.MaxRetries = cfg.Sync.MaxRetries
	}

	services, err := service.NewClientServices(ctx, localStorage, serverAdapter, crypto.NewKeyedHasher(cfg.App.HashKey), service.ServicesOptions{
		Platform:          cfg.App.Platform,
		AppVersion:        cfg.App.Version,
		Concurrency:       cfg.Sync.Concurrency,
		CompressThreshold: cfg.Sync.CompressThreshold,
		RetryPolicy:       retryPolicy,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client services")
	}

	services.SyncJob.Start(ctx, cfg.Sync.Interval)
	log.Info().
		Str("server", cfg.Adapter.HTTPAddress).
		Dur("interval", cfg.Sync.Interval).
		Msg("background sync started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	services.SyncJob.Stop()
	services.Engine.AbortSync()

	if closer, ok := localStorage.(interface{ Close() error }); ok {
		if err = closer.Close(); err != nil {
			log.Err(err).Msg("close local storage")
		}
	}
}

func printBuildInfo() {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
