package flowboard

import (
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type serveArgs struct {
	addr      string
	seed      bool
	aiEnabled bool
}

func setRunServeForTest(fn func(addr string, seed, aiEnabled bool) error) func() {
	previous := runServeFunc
	runServeFunc = fn
	return func() {
		runServeFunc = previous
	}
}

func TestServeCommandUsesConfigDefaultsWhenFlagsUnset(t *testing.T) {
	var got serveArgs
	restore := setRunServeForTest(func(addr string, seed, aiEnabled bool) error {
		got = serveArgs{addr: addr, seed: seed, aiEnabled: aiEnabled}
		return nil
	})
	defer restore()

	cfg := Config{SandboxAddr: "127.0.0.1:19190"}
	cmd := newServeCommand(&cfg)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	require.Equal(t, "127.0.0.1:19190", got.addr)
	require.True(t, got.seed)
	require.False(t, got.aiEnabled)
}

func TestServeCommandFlagsOverrideConfig(t *testing.T) {
	var got serveArgs
	restore := setRunServeForTest(func(addr string, seed, aiEnabled bool) error {
		got = serveArgs{addr: addr, seed: seed, aiEnabled: aiEnabled}
		return nil
	})
	defer restore()

	cfg := Config{SandboxAddr: "127.0.0.1:19191"}
	cmd := newServeCommand(&cfg)
	cmd.SetArgs([]string{"--addr", "127.0.0.1:18081", "--seed=false", "--ai"})
	require.NoError(t, cmd.Execute())

	require.Equal(t, "127.0.0.1:18081", got.addr)
	require.False(t, got.seed)
	require.True(t, got.aiEnabled)
}

func TestServeCommandRequiresAddr(t *testing.T) {
	restore := setRunServeForTest(func(string, bool, bool) error { return nil })
	defer restore()

	cmd := newServeCommand(&Config{})
	cmd.SetArgs(nil)
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "--addr cannot be empty")
}

func TestRunServeWithSignalsStopsCleanly(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)

	sigCh := make(chan os.Signal, 1)
	go func() {
		time.Sleep(150 * time.Millisecond)
		sigCh <- syscall.SIGTERM
	}()

	err := runServeWithSignals(addr, false, false, sigCh)
	require.NoError(t, err)
}

func TestRunServeWithSignalsReturnsListenError(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	listener, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	defer listener.Close()

	err = runServeWithSignals(addr, false, false, make(chan os.Signal))
	require.Error(t, err)
	require.Contains(t, err.Error(), "listen failed")
}

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}
