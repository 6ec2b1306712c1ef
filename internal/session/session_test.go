package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "session.yaml")
	store := NewStore(path)

	want := Session{AccessToken: "access-1", RefreshToken: "refresh-1"}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.True(t, got.LoggedIn())
}

func TestSaveUsesOwnerOnlyPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.yaml")
	store := NewStore(path)
	require.NoError(t, store.Save(Session{AccessToken: "a", RefreshToken: "r"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadMissingFileIsEmptySession(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "absent.yaml"))

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, Session{}, got)
	require.False(t, got.LoggedIn())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("access_token: [broken"), 0o600))

	_, err := NewStore(path).Load()
	require.Error(t, err)
}

func TestLoadTrimsWhitespace(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.yaml")
	body := "access_token: '  tok  '\nrefresh_token: \"ref \"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	got, err := NewStore(path).Load()
	require.NoError(t, err)
	require.Equal(t, Session{AccessToken: "tok", RefreshToken: "ref"}, got)
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.yaml")
	store := NewStore(path)
	require.NoError(t, store.Save(Session{AccessToken: "a"}))

	require.NoError(t, store.Clear())
	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, store.Clear())
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	got := DefaultPath("/home/dev")
	require.Equal(t, filepath.Join("/home/dev", ".local", "state", "flowboard", "session.yaml"), got)
}
