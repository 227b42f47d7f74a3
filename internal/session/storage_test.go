package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewFileStore(path)

	got, err := s.Get(TokenKey)
	require.NoError(t, err)
	assert.Empty(t, got, "missing file reads as empty")

	require.NoError(t, s.Set(TokenKey, "abc"))
	require.NoError(t, s.Set(LangKey, "ru"))

	// a second instance sees what the first wrote
	s2 := NewFileStore(path)
	got, err = s2.Get(TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, s2.Delete(TokenKey))
	got, err = s.Get(TokenKey)
	require.NoError(t, err)
	assert.Empty(t, got)

	lang, err := s.Get(LangKey)
	require.NoError(t, err)
	assert.Equal(t, "ru", lang)
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "state.json")
	s := NewFileStore(path)

	require.NoError(t, s.Set("k", "v"))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestFileStoreDeleteMissingKey(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, s.Delete("never-set"))
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Set("a", "1"))
	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	require.NoError(t, s.Delete("a"))
	got, err = s.Get("a")
	require.NoError(t, err)
	assert.Empty(t, got)
}
