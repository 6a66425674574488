package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhashir/textrack/internal/storage"
)

func TestMemory_RoundTrip(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	require.NoError(t, kv.Set(ctx, "k", "v2"))

	got, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", got)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()

	kv, err := storage.NewFile(path, nil)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "textrack_user_id", "user_abc1234"))
	require.NoError(t, kv.Close())

	reopened, err := storage.NewFile(path, nil)
	require.NoError(t, err)

	got, ok, err := reopened.Get(ctx, "textrack_user_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user_abc1234", got)
}

func TestFile_MissingFileIsEmpty(t *testing.T) {
	kv, err := storage.NewFile(filepath.Join(t.TempDir(), "never-written.json"), nil)
	require.NoError(t, err)

	_, ok, err := kv.Get(context.Background(), "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("%%% definitely not json"), 0o644))

	kv, err := storage.NewFile(path, nil)
	require.NoError(t, err, "a damaged ledger file must not block startup")

	_, ok, err := kv.Get(context.Background(), "anything")
	require.NoError(t, err)
	assert.False(t, ok)

	// And the store must be writable again afterwards.
	require.NoError(t, kv.Set(context.Background(), "k", "v"))
}

func TestSQLite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	kv, err := storage.NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	require.NoError(t, kv.Set(ctx, "k", "v1"))
	require.NoError(t, kv.Set(ctx, "k", "v2"))

	got, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", got)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()

	mem, err := storage.Open(storage.BackendMemory, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &storage.Memory{}, mem)

	file, err := storage.Open(storage.BackendFile, filepath.Join(dir, "l.json"), nil)
	require.NoError(t, err)
	assert.IsType(t, &storage.File{}, file)

	_, err = storage.Open("etcd", "", nil)
	assert.Error(t, err)
}
