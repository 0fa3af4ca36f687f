package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/files"})
	require.NoError(t, err)
	return store
}

func TestLocalStorage_PutGetRoundtrip(t *testing.T) {
	t.Parallel()

	store := newTestLocal(t)
	ctx := context.Background()

	err := store.Put(ctx, "ns/owner/file.txt", strings.NewReader("hello"), 5, "text/plain", false)
	require.NoError(t, err)

	reader, err := store.Get(ctx, "ns/owner/file.txt")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalStorage_PutRejectsOccupiedKey(t *testing.T) {
	t.Parallel()

	store := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a/b.txt", strings.NewReader("one"), 3, "text/plain", false))

	err := store.Put(ctx, "a/b.txt", strings.NewReader("two"), 3, "text/plain", false)
	assert.ErrorIs(t, err, ErrKeyExists)

	// overwrite mode replaces in place
	require.NoError(t, store.Put(ctx, "a/b.txt", strings.NewReader("two"), 3, "text/plain", true))
	reader, err := store.Get(ctx, "a/b.txt")
	require.NoError(t, err)
	defer reader.Close()
	data, _ := io.ReadAll(reader)
	assert.Equal(t, "two", string(data))
}

func TestLocalStorage_DeleteAbsentKeyIsNoop(t *testing.T) {
	t.Parallel()

	store := newTestLocal(t)
	assert.NoError(t, store.Delete(context.Background(), "never/existed.txt"))
}

func TestLocalStorage_ListByPrefix(t *testing.T) {
	t.Parallel()

	store := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ns/o1/a.txt", strings.NewReader("a"), 1, "text/plain", false))
	require.NoError(t, store.Put(ctx, "ns/o1/b.txt", strings.NewReader("bb"), 2, "text/plain", false))
	require.NoError(t, store.Put(ctx, "ns/o2/c.txt", strings.NewReader("c"), 1, "text/plain", false))

	entries, err := store.List(ctx, "ns/o1/")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	keys := []string{entries[0].Key, entries[1].Key}
	assert.Contains(t, keys, "ns/o1/a.txt")
	assert.Contains(t, keys, "ns/o1/b.txt")

	// listing an unknown prefix yields empty, not an error
	entries, err = store.List(ctx, "ns/absent/")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_PublicURL(t *testing.T) {
	t.Parallel()

	store := newTestLocal(t)
	assert.Equal(t, "/files/ns/o1/a.txt", store.PublicURL("ns/o1/a.txt"))
}
