package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_SetGet(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", "v1"))

	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)
}

func TestMemoryStorage_GetMissingKey(t *testing.T) {
	s := NewMemoryStorage()

	_, err := s.Get(context.Background(), "absent")

	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStorage_SetOverwrites(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", "first"))
	require.NoError(t, s.Set(ctx, "k1", "second"))

	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestMemoryStorage_RemoveIsIdempotent(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", "v1"))
	require.NoError(t, s.Remove(ctx, "k1"))
	require.NoError(t, s.Remove(ctx, "k1"))

	_, err := s.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStorage_Clear(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", "v1"))
	require.NoError(t, s.Set(ctx, "k2", "v2"))
	require.NoError(t, s.Clear(ctx))

	keys, err := s.GetAllKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryStorage_GetAllKeysSorted(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	for _, key := range []string{"zebra", "alpha", "middle"} {
		require.NoError(t, s.Set(ctx, key, "v"))
	}

	keys, err := s.GetAllKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "middle", "zebra"}, keys)
}

func TestMemoryStorage_WriteCount(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	counter, ok := s.(interface{ WriteCount() int })
	require.True(t, ok)
	assert.Zero(t, counter.WriteCount())

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "a", "2"))

	assert.Equal(t, 2, counter.WriteCount())
}
