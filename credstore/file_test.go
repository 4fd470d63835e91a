package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightsphere/insight-go/client"
)

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs := NewFileStore(path)

	// Load on a missing file yields the empty session.
	sess, err := fs.Load()
	require.NoError(t, err)
	assert.True(t, sess.Empty())
	assert.Empty(t, fs.Token())

	in := Session{Token: "tok-abc", User: &client.User{ID: "u1", Username: "alice"}}
	require.NoError(t, fs.Save(in))
	assert.Equal(t, "tok-abc", fs.Token())

	// A fresh store re-reads the pair from disk.
	fresh := NewFileStore(path)
	sess, err = fresh.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", sess.Token)
	require.NotNil(t, sess.User)
	assert.Equal(t, "u1", sess.User.ID)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs := NewFileStore(path)
	require.NoError(t, fs.Save(Session{Token: "tok"}))

	require.NoError(t, fs.Clear())
	assert.Empty(t, fs.Token())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-empty store succeeds.
	require.NoError(t, fs.Clear())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	fs := NewFileStore(path)
	_, err := fs.Load()
	assert.Error(t, err)
	// The request path must not fail on storage errors.
	assert.Empty(t, fs.Token())
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Save(Session{Token: "tok"}))
	assert.Equal(t, "tok", m.Token())
	require.NoError(t, m.Clear())
	sess, err := m.Load()
	require.NoError(t, err)
	assert.True(t, sess.Empty())
}
