package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetMissingKey(t *testing.T) {
	store := openTestStore(t)

	value, found, err := store.Get("nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
}

func TestSetAndGet(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set("user_settings", []byte(`{"a":1}`)))

	value, found, err := store.Get("user_settings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"a":1}`), value)
}

func TestSetOverwrites(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set("k", []byte("first")))
	require.NoError(t, store.Set("k", []byte("second")))

	value, found, err := store.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("second"), value)
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set("k", []byte("v")))
	require.NoError(t, store.Delete("k"))

	_, found, err := store.Get("k")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting again is a no-op, not an error.
	require.NoError(t, store.Delete("k"))
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blobs.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("notifications_enabled", []byte("true")))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	value, found, err := store.Get("notifications_enabled")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("true"), value)
}
