package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSlotName = "0a137b375cc3881a70e186ce2172c8d1f3ad9c6ba4e69c5f17fe9735f9ca54e5"

func TestFileStoreRoundTripsTheBytes(t *testing.T) {
	store := newTestFileStore(t)

	require.NoError(t, store.Write(sampleSlotName, []byte("<rss>payload</rss>")))

	data, err := store.Read(sampleSlotName)
	require.NoError(t, err)
	assert.Equal(t, []byte("<rss>payload</rss>"), data)
}

func TestFileStoreReadOfNeverWrittenSlotReturnsErrNotCached(t *testing.T) {
	store := newTestFileStore(t)

	data, err := store.Read(sampleSlotName)
	assert.Nil(t, data)
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestFileStoreNewestWriteWins(t *testing.T) {
	store := newTestFileStore(t)

	require.NoError(t, store.Write(sampleSlotName, []byte("first")))
	require.NoError(t, store.Write(sampleSlotName, []byte("second")))

	data, err := store.Read(sampleSlotName)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestFileStoreIgnoresEmptySlot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	assert.NoError(t, store.Write("", []byte("ignored")))

	entries, err := os.ReadDir(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}
