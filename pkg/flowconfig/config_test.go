package flowconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrInitWritesDefaults(t *testing.T) {
	t.Parallel()

	home := t.TempDir()

	cfg, err := LoadOrInit(home)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = os.Stat(ConfigPath(home))
	require.NoError(t, err)
}

func TestLoadOrInitMergesPartialFile(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	path := ConfigPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://box:9999\n"), 0o644))

	cfg, err := LoadOrInit(home)
	require.NoError(t, err)
	require.Equal(t, "http://box:9999", cfg.ServerURL)
	require.Equal(t, DefaultOutput, cfg.CLI.Output)
	require.Equal(t, DefaultSandboxAddr, cfg.Sandbox.Addr)

	// Missing fields were filled in and written back.
	reread, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, cfg, reread)
}

func TestMergePrefersUserValues(t *testing.T) {
	t.Parallel()

	user := Config{
		ServerURL: "  http://other:5000  ",
		CLI:       CLIConfig{Output: "json"},
	}

	merged := Merge(Default(), user)
	require.Equal(t, "http://other:5000", merged.ServerURL)
	require.Equal(t, "json", merged.CLI.Output)
	require.Equal(t, DefaultSandboxAddr, merged.Sandbox.Addr)
}

func TestLoadFileRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [oops"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestSaveFileRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Config{
		ServerURL: "http://127.0.0.1:7001",
		CLI:       CLIConfig{Output: "json"},
		Sandbox:   SandboxConfig{Addr: "127.0.0.1:7001"},
	}

	require.NoError(t, SaveFile(path, want))

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
