package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "@environmental_data"

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rs, err := NewRedisStore(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { rs.Close() })

	return map[string]Store{
		BackendMemory: NewMemoryStore(),
		BackendFile:   fs,
		BackendRedis:  rs,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, testKey)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, testKey, []byte(`{"a":1}`)))
			got, err := s.Get(ctx, testKey)
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, string(got))

			require.NoError(t, s.Set(ctx, testKey, []byte(`{"b":2}`)))
			got, err = s.Get(ctx, testKey)
			require.NoError(t, err)
			assert.Equal(t, `{"b":2}`, string(got))

			require.NoError(t, s.Remove(ctx, testKey))
			_, err = s.Get(ctx, testKey)
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Remove(ctx, testKey))
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	in := []byte("abc")
	require.NoError(t, s.Set(ctx, testKey, in))
	in[0] = 'x'

	out, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	out[1] = 'y'

	again, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestFileStoreEscapesKeys(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "a/../b", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, dir, filepath.Dir(filepath.Join(dir, entries[0].Name())))
}

func TestRedisStoreReadsForeignValue(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set(testKey, "not json"))

	s, err := NewRedisStore(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(got))
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Options{Backend: BackendFile})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Backend: "sqlite"})
	assert.Error(t, err)
}
