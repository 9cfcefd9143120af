package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]BlobStore {
	fs, err := NewFilesystemStore(filepath.Join(t.TempDir(), "audio"))
	require.NoError(t, err)
	return map[string]BlobStore{
		"filesystem": fs,
		"memory":     NewMemoryStore(),
	}
}

func TestBlobStore_PutGet(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			data := []byte{0x49, 0x44, 0x33, 0x00, 0xff}

			require.NoError(t, store.Put(ctx, "episodes/abc.mp3", data, "audio/mpeg"))

			got, contentType, err := store.Get(ctx, "episodes/abc.mp3")
			require.NoError(t, err)
			assert.Equal(t, data, got)
			assert.Equal(t, "audio/mpeg", contentType)

			require.NoError(t, store.Put(ctx, "episodes/abc.mp3", []byte("v2"), "audio/wav"))
			got, contentType, err = store.Get(ctx, "episodes/abc.mp3")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), got)
			assert.Equal(t, "audio/wav", contentType)
		})
	}
}

func TestBlobStore_NotFound(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, _, err := store.Get(context.Background(), "episodes/missing.mp3")
			assert.ErrorIs(t, err, ErrBlobNotFound)
		})
	}
}

func TestBlobStore_Delete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Put(ctx, "episodes/gone.mp3", []byte("audio"), "audio/mpeg"))

			require.NoError(t, store.Delete(ctx, "episodes/gone.mp3"))
			_, _, err := store.Get(ctx, "episodes/gone.mp3")
			assert.ErrorIs(t, err, ErrBlobNotFound)

			// Deleting again is fine
			assert.NoError(t, store.Delete(ctx, "episodes/gone.mp3"))
			assert.ErrorIs(t, store.Delete(ctx, "../outside"), ErrInvalidKey)
		})
	}
}

func TestFilesystemStore_DeleteRemovesContentType(t *testing.T) {
	base := filepath.Join(t.TempDir(), "audio")
	store, err := NewFilesystemStore(base)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "episodes/a.mp3", []byte("x"), "audio/mpeg"))
	require.NoError(t, store.Delete(ctx, "episodes/a.mp3"))

	entries, err := os.ReadDir(filepath.Join(base, "episodes"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBlobStore_InvalidKeys(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "/etc/passwd", "../outside", "a/../../b", ".", `a\b`} {
				err := store.Put(context.Background(), key, []byte("x"), "text/plain")
				assert.ErrorIs(t, err, ErrInvalidKey, key)

				_, _, err = store.Get(context.Background(), key)
				assert.ErrorIs(t, err, ErrInvalidKey, key)
			}
		})
	}
}

func TestBlobStore_CancelledContext(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			assert.ErrorIs(t, store.Put(ctx, "k", []byte("x"), "text/plain"), context.Canceled)
		})
	}
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := NewMemoryStore()
	data := []byte("abc")
	require.NoError(t, store.Put(context.Background(), "k", data, "text/plain"))
	data[0] = 'X'

	got, _, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
	got[1] = 'Y'

	again, _, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
	assert.Equal(t, 1, store.Len())
}

func TestFilesystemStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "episodes/x.mp3", []byte("audio"), "audio/mpeg"))

	entries, err := os.ReadDir(filepath.Join(dir, "episodes"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"x.mp3", "x.mp3.content-type"}, names)
}

func TestAudioKey(t *testing.T) {
	assert.Equal(t, "episodes/abc.mp3", AudioKey("abc", "audio/mpeg"))
	assert.Equal(t, "episodes/abc.wav", AudioKey("abc", "audio/wav"))
	assert.Equal(t, "episodes/abc.ogg", AudioKey("abc", "audio/ogg; codecs=opus"))
	assert.Equal(t, "episodes/abc.bin", AudioKey("abc", "application/x-unknown"))
}
