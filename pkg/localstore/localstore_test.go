package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("auth_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("auth_token", "abc"))
	require.NoError(t, s.Set("current_user", `{"id":1}`))

	value, ok, err := s.Get("auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	require.NoError(t, s.Delete("auth_token"))
	require.NoError(t, s.Delete("never-set"))

	_, ok, err = s.Get("auth_token")
	require.NoError(t, err)
	assert.False(t, ok)

	value, _, err = s.Get("current_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, value)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	value, ok, err := reopened.Get("current_user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, value)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	_, _, err = s.Get("auth_token")
	assert.Error(t, err)
}
