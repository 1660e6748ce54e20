package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupLocalStore(t *testing.T) (Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := createLocalStore(map[string]interface{}{"dir": dir})
	require.NoError(t, err)
	return store, dir
}

func TestLocalStoreListByPrefix(t *testing.T) {
	store, dir := setupLocalStore(t)
	base := filepath.Join(dir, "algoritmos", "20241", "A", "g1")
	require.NoError(t, os.MkdirAll(base, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "silabo.md"), []byte("# Sílabo"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "otro.txt"), []byte("fuera"), 0o644))

	keys, err := store.List(context.Background(), "algoritmos/20241/A/g1/")
	require.NoError(t, err)
	require.Equal(t, []string{"algoritmos/20241/A/g1/silabo.md"}, keys)
}

func TestLocalStoreListMissingDir(t *testing.T) {
	store, err := createLocalStore(map[string]interface{}{"dir": filepath.Join(t.TempDir(), "nope")})
	require.NoError(t, err)
	keys, err := store.List(context.Background(), "algoritmos/")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestLocalStoreFetchText(t *testing.T) {
	store, dir := setupLocalStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("apuntes de clase"), 0o644))

	text, err := store.FetchText(context.Background(), "notas.txt")
	require.NoError(t, err)
	require.Equal(t, "apuntes de clase", text)

	// s3-style locators resolve to the bucket-relative key.
	text, err = store.FetchText(context.Background(), "s3://bucket/notas.txt")
	require.NoError(t, err)
	require.Equal(t, "apuntes de clase", text)

	_, err = store.FetchText(context.Background(), "../etc/passwd")
	require.Error(t, err)
}
