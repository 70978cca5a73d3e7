// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/migrations"
)

// sqliteStorage is the file-backed [Storage] implementation used on devices.
// All values live in a single kv_entries table created by the embedded goose
// migrations. SQLite executes each statement in its own transaction, which
// gives Set the atomicity the contract requires.
type sqliteStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSQLiteStorage opens (creating if necessary) the SQLite database at
// dbPath, runs pending schema migrations, and returns a ready [Storage].
func NewSQLiteStorage(ctx context.Context, dbPath string, log *logger.Logger) (Storage, error) {
	if err := createLocalDBFileIfNotExists(dbPath); err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewSQLiteStorage").Msg("error connecting database (ping)")
		return nil, err
	}

	if err = migrations.Migrate(conn); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	log.Debug().Str("func", "NewSQLiteStorage").Msg("connected to database successfully")

	return &sqliteStorage{db: conn, logger: log}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		if dir := filepath.Dir(dbFile); dir != "." {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("error creating DB dir: %w", err)
			}
		}
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}

// Get implements [Storage].
func (s *sqliteStorage) Get(ctx context.Context, key string) (string, error) {
	query, args, err := sq.Select("value").
		From("kv_entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	row := s.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return value, nil
}

// Set implements [Storage]. The upsert runs as a single implicit transaction.
func (s *sqliteStorage) Set(ctx context.Context, key, value string) error {
	query, args, err := sq.Insert("kv_entries").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		if isQuotaError(err) {
			return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
		}
		s.logger.Err(err).Str("func", "sqliteStorage.Set").Str("key", key).Msg("failed to upsert kv entry")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// Remove implements [Storage]. Removing a missing key is a no-op.
func (s *sqliteStorage) Remove(ctx context.Context, key string) error {
	query, args, err := sq.Delete("kv_entries").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// Clear implements [Storage].
func (s *sqliteStorage) Clear(ctx context.Context) error {
	query, _, err := sq.Delete("kv_entries").ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// GetAllKeys implements [Storage]. Keys come back sorted so callers get a
// deterministic enumeration order.
func (s *sqliteStorage) GetAllKeys(ctx context.Context) ([]string, error) {
	query, _, err := sq.Select("key").From("kv_entries").OrderBy("key ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return keys, nil
}

// Close releases the underlying database handle.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

func isQuotaError(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrFull
	}
	return false
}
