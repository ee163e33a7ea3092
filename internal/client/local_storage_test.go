package client

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Save(t *testing.T) {
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "uploads"), 1024)
	require.NoError(t, err)

	png := []byte("\x89PNG\r\n\x1a\n0000")
	f, err := s.Save(context.Background(), "../../site photo.PNG", strings.NewReader(string(png)))
	require.NoError(t, err)

	assert.Equal(t, s.Dir(), filepath.Dir(f.Path), "names cannot escape the staging dir")
	assert.Equal(t, ".png", filepath.Ext(f.Path))
	assert.Equal(t, "image/png", f.MimeType)
	assert.Equal(t, int64(len(png)), f.Size)
	assert.Equal(t, "../../site photo.PNG", f.OriginalName)
}

func TestLocalStorage_SaveTooLarge(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), 4)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "big.txt", strings.NewReader("too large"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "partial file removed")
}

func TestLocalStorage_Remove(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)

	f, err := s.Save(context.Background(), "a.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(f.Path))
	_, err = os.Stat(f.Path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(f.Path), "already removed")
	assert.Error(t, s.Remove(filepath.Join(s.Dir(), "..", "outside.txt")))
	assert.Error(t, s.Remove(s.Dir()))
}

func TestLocalStorage_StaleFiles(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)

	old, err := s.Save(context.Background(), "old.txt", strings.NewReader("old"))
	require.NoError(t, err)
	fresh, err := s.Save(context.Background(), "fresh.txt", strings.NewReader("fresh"))
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(old.Path, past, past))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "nested"), 0o755))

	stale, err := s.StaleFiles(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{old.Path}, stale)
	assert.NotContains(t, stale, fresh.Path)
}

func TestMockObjectStore_RecordsCalls(t *testing.T) {
	m := NewMockObjectStore()

	res, err := m.Upload(context.Background(), "missing-is-fine")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, m.BaseURL))
	require.NoError(t, m.Delete(context.Background(), "abc"))

	assert.Equal(t, []string{res.URL}, m.Uploaded())
	assert.Equal(t, []string{"abc"}, m.Deleted())
}
