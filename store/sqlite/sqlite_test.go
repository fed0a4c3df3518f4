package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_GetMissingKey(t *testing.T) {
	s := newTestStore(t)
	v, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Set(ctx, "budget_tracker_v1", `{"theme":"light"}`))
	v, ok, err := s.Get(ctx, "budget_tracker_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"theme":"light"}`, v)
}

func TestStore_SetReplacesExistingValue(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Set(ctx, "k", "first"))
	require.NoError(t, s.Set(ctx, "k", "second"))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Set(ctx, "budget_tracker_v1", "state"))
	require.NoError(t, s.Set(ctx, "budget_tracker_undo", "undo"))

	v, _, err := s.Get(ctx, "budget_tracker_v1")
	require.NoError(t, err)
	assert.Equal(t, "state", v)

	v, _, err = s.Get(ctx, "budget_tracker_undo")
	require.NoError(t, err)
	assert.Equal(t, "undo", v)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Close())

	s2, err := New(path)
	require.NoError(t, err)
	defer s2.Close()

	v, ok, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
