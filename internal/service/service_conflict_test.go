// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-offline-sync/models"
)

func updateConflict(local, remote any) models.ConflictData {
	return models.ConflictData{
		ID:              "c-1",
		Type:            models.ConflictUpdateUpdate,
		TableName:       "notes",
		RecordID:        "n-1",
		Field:           "title",
		LocalValue:      local,
		RemoteValue:     remote,
		LocalTimestamp:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		RemoteTimestamp: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		Status:          models.ConflictPending,
	}
}

// ── Scalar strategies ────────────────────────────────────────────────────────

func TestResolve_LocalWins(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{DefaultStrategy: models.StrategyLocalWins})

	res, err := r.Resolve(updateConflict("local", "remote"))
	require.NoError(t, err)

	assert.True(t, res.Resolved)
	assert.Equal(t, "local", res.Value)
	assert.Equal(t, models.WinnerLocal, res.Winner)
	assert.Equal(t, models.StrategyLocalWins, res.Strategy)
}

func TestResolve_RemoteWins(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{DefaultStrategy: models.StrategyRemoteWins})

	res, err := r.Resolve(updateConflict("local", "remote"))
	require.NoError(t, err)

	assert.True(t, res.Resolved)
	assert.Equal(t, "remote", res.Value)
	assert.Equal(t, models.WinnerRemote, res.Winner)
}

func TestResolve_LatestWins(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	t.Run("local newer", func(t *testing.T) {
		c := updateConflict("local", "remote")
		c.LocalTimestamp = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		c.RemoteTimestamp = time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)

		res, err := r.Resolve(c)
		require.NoError(t, err)
		assert.Equal(t, "local", res.Value)
		assert.Equal(t, models.WinnerLocal, res.Winner)
	})

	t.Run("remote newer", func(t *testing.T) {
		c := updateConflict("local", "remote")
		c.LocalTimestamp = time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
		c.RemoteTimestamp = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		res, err := r.Resolve(c)
		require.NoError(t, err)
		assert.Equal(t, "remote", res.Value)
		assert.Equal(t, models.WinnerRemote, res.Winner)
	})

	t.Run("equal timestamps resolve local", func(t *testing.T) {
		ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		c := updateConflict("local", "remote")
		c.LocalTimestamp = ts
		c.RemoteTimestamp = ts

		res, err := r.Resolve(c)
		require.NoError(t, err)
		assert.Equal(t, "local", res.Value)
		assert.Equal(t, models.WinnerLocal, res.Winner)
	})
}

func TestResolve_Manual(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{DefaultStrategy: models.StrategyManual})

	res, err := r.Resolve(updateConflict("local", "remote"))
	require.NoError(t, err)

	assert.False(t, res.Resolved)
	assert.Nil(t, res.Value)
	assert.Equal(t, models.WinnerNone, res.Winner)
}

func TestResolve_FieldStrategyOverride(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{
		DefaultStrategy: models.StrategyLocalWins,
		FieldStrategies: map[string]string{"notes.title": models.StrategyRemoteWins},
	})

	res, err := r.Resolve(updateConflict("local", "remote"))
	require.NoError(t, err)
	assert.Equal(t, "remote", res.Value)

	other := updateConflict("local", "remote")
	other.Field = "body"
	res, err = r.Resolve(other)
	require.NoError(t, err)
	assert.Equal(t, "local", res.Value)
}

func TestResolve_UnknownStrategy(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{DefaultStrategy: "coin-flip"})

	_, err := r.Resolve(updateConflict("local", "remote"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resolution strategy")
}

func TestResolve_UnknownConflictType(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	c := updateConflict("local", "remote")
	c.Type = "merge-merge"
	_, err := r.Resolve(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown conflict type")
}

// ── Array merge ──────────────────────────────────────────────────────────────

func TestResolve_ArrayThreeWayMerge(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	c := updateConflict(
		[]any{"A", "B", "C"}, // local added C
		[]any{"A", "D"},      // remote removed B, added D
	)
	c.AncestorValue = []any{"A", "B"}
	c.HasAncestor = true

	res, err := r.Resolve(c)
	require.NoError(t, err)

	assert.True(t, res.Resolved)
	assert.Equal(t, models.StrategyMerge, res.Strategy)
	assert.Equal(t, models.WinnerMerged, res.Winner)
	assert.Equal(t, []any{"A", "C", "D"}, res.Value)
}

func TestResolve_ArrayMerge_ConcurrentRemoval(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	c := updateConflict(
		[]any{"A"}, // both removed B
		[]any{"A"},
	)
	c.AncestorValue = []any{"A", "B"}
	c.HasAncestor = true

	res, err := r.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, []any{"A"}, res.Value)
}

func TestResolve_ArrayMerge_DuplicateAdditions(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	c := updateConflict(
		[]any{"A", "X"}, // both added X independently
		[]any{"A", "X"},
	)
	c.AncestorValue = []any{"A"}
	c.HasAncestor = true

	res, err := r.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, []any{"A", "X"}, res.Value)
}

func TestResolve_ArrayMerge_NoAncestor(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	// Without an ancestor nothing counts as removed: union survives.
	c := updateConflict(
		[]any{"A", "B"},
		[]any{"B", "C"},
	)

	res, err := r.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, []any{"A", "B", "C"}, res.Value)
}

// ── Object merge ─────────────────────────────────────────────────────────────

func TestResolve_ObjectMerge_DisjointKeys(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	c := updateConflict(
		map[string]any{"a": 1.0, "b": 2.0},
		map[string]any{"a": 1.0, "c": 3.0},
	)
	c.AncestorValue = map[string]any{"a": 1.0}
	c.HasAncestor = true

	res, err := r.Resolve(c)
	require.NoError(t, err)

	merged, ok := res.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1.0, "b": 2.0, "c": 3.0}, merged)
}

func TestResolve_ObjectMerge_SameKeyRecursesToStrategy(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{DefaultStrategy: models.StrategyRemoteWins})

	c := updateConflict(
		map[string]any{"title": "local"},
		map[string]any{"title": "remote"},
	)

	res, err := r.Resolve(c)
	require.NoError(t, err)

	merged, ok := res.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "remote", merged["title"])
}

func TestResolve_ObjectMerge_DeletionHonoredWhenUntouched(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	// Remote deleted "b"; local left it untouched relative to the ancestor.
	c := updateConflict(
		map[string]any{"a": 1.0, "b": 2.0},
		map[string]any{"a": 1.0},
	)
	c.AncestorValue = map[string]any{"a": 1.0, "b": 2.0}
	c.HasAncestor = true

	res, err := r.Resolve(c)
	require.NoError(t, err)

	merged, ok := res.Value.(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, merged, "b")
}

func TestResolve_ObjectMerge_EditWinsOverDeletion(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	// Remote deleted "b" but local changed it: the edit survives.
	c := updateConflict(
		map[string]any{"a": 1.0, "b": 99.0},
		map[string]any{"a": 1.0},
	)
	c.AncestorValue = map[string]any{"a": 1.0, "b": 2.0}
	c.HasAncestor = true

	res, err := r.Resolve(c)
	require.NoError(t, err)

	merged, ok := res.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 99.0, merged["b"])
}

func TestResolve_ObjectMerge_NestedArrays(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	c := updateConflict(
		map[string]any{"tags": []any{"A", "B", "C"}},
		map[string]any{"tags": []any{"A", "D"}},
	)
	c.AncestorValue = map[string]any{"tags": []any{"A", "B"}}
	c.HasAncestor = true

	res, err := r.Resolve(c)
	require.NoError(t, err)

	merged, ok := res.Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"A", "C", "D"}, merged["tags"])
}

func TestResolve_ObjectMerge_ManualInsideObjectFails(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{DefaultStrategy: models.StrategyManual})

	c := updateConflict(
		map[string]any{"title": "local"},
		map[string]any{"title": "remote"},
	)

	_, err := r.Resolve(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manual resolution required")
}

// ── Delete conflicts ─────────────────────────────────────────────────────────

func TestResolve_DeleteConflict_PreservesUpdateByDefault(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{})

	t.Run("local updated, remote deleted", func(t *testing.T) {
		c := updateConflict("local-edit", nil)
		c.Type = models.ConflictUpdateDelete

		res, err := r.Resolve(c)
		require.NoError(t, err)
		assert.True(t, res.Resolved)
		assert.False(t, res.Deleted)
		assert.Equal(t, "local-edit", res.Value)
		assert.Equal(t, models.WinnerLocal, res.Winner)
	})

	t.Run("local deleted, remote updated", func(t *testing.T) {
		c := updateConflict(nil, "remote-edit")
		c.Type = models.ConflictDeleteUpdate

		res, err := r.Resolve(c)
		require.NoError(t, err)
		assert.True(t, res.Resolved)
		assert.False(t, res.Deleted)
		assert.Equal(t, "remote-edit", res.Value)
		assert.Equal(t, models.WinnerRemote, res.Winner)
	})
}

func TestResolve_DeleteConflict_DeleteWinsOptIn(t *testing.T) {
	r := NewConflictResolver(ResolverOptions{
		DeleteWins: map[string]bool{"notes": true},
	})

	c := updateConflict("local-edit", nil)
	c.Type = models.ConflictUpdateDelete

	res, err := r.Resolve(c)
	require.NoError(t, err)
	assert.True(t, res.Resolved)
	assert.True(t, res.Deleted)
	assert.Nil(t, res.Value)
	assert.Equal(t, models.WinnerRemote, res.Winner)
}
