// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
)

func newMockStorage(t *testing.T) (*sqliteStorage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &sqliteStorage{db: db, logger: logger.Nop()}, mock
}

func TestSQLiteStorage_Get(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = ?")).
		WithArgs("notes/1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"title":"x"}`))

	got, err := s.Get(context.Background(), "notes/1")

	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_GetMissingKey(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = ?")).
		WithArgs("absent").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "absent")

	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_SetUpserts(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries (key,value) VALUES (?,?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP")).
		WithArgs("notes/1", "payload").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Set(context.Background(), "notes/1", "payload")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_SetExecError(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries")).
		WillReturnError(errors.New("database is locked"))

	err := s.Set(context.Background(), "notes/1", "payload")

	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_Remove(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE key = ?")).
		WithArgs("notes/1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Remove(context.Background(), "notes/1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_Clear(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := s.Clear(context.Background())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_GetAllKeys(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key FROM kv_entries ORDER BY key ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).
			AddRow("alpha").
			AddRow("beta").
			AddRow("gamma"))

	keys, err := s.GetAllKeys(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStorage_GetAllKeysEmpty(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key FROM kv_entries ORDER BY key ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"key"}))

	keys, err := s.GetAllKeys(context.Background())

	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}
