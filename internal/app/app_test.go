package app

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "run"), 0o700))
	return dir
}

func TestExecuteVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"--version"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "clackd ")
}

func TestExecuteHelpByDefault(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), nil, &stdout, &stderr)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "Usage:")
}

func TestExecuteUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"explode"}, &stdout, &stderr)
	require.Equal(t, 2, code)
	require.Contains(t, stderr.String(), "unknown command")
}

func TestExecuteStatusReportsNotRunning(t *testing.T) {
	setupEnv(t)

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"status"}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stdout.String(), "not running")
}

func TestExecuteStatusReportsRunning(t *testing.T) {
	dir := setupEnv(t)

	socketPath := filepath.Join(dir, "run", "clack.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	defer listener.Close()

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"status"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "is running")
}

func TestExecuteSendDeliversCodes(t *testing.T) {
	dir := setupEnv(t)

	socketPath := filepath.Join(dir, "run", "clack.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	defer listener.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 8)
		total := 0
		for {
			n, readErr := conn.Read(buf[total:])
			total += n
			if readErr != nil {
				break
			}
		}
		received <- buf[:total]
	}()

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"send", "sx"}, &stdout, &stderr)
	require.Equal(t, 0, code)

	select {
	case got := <-received:
		require.Equal(t, []byte("sx"), got)
	case <-time.After(2 * time.Second):
		t.Fatalf("codes never arrived")
	}
}

func TestExecuteSendFailsWithoutDaemon(t *testing.T) {
	setupEnv(t)

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"send", "s"}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "send event codes")
}

func TestExecuteRunExitsCleanlyWhenCancelledDuringSocketRetry(t *testing.T) {
	dir := setupEnv(t)

	// Another owner holds the well-known socket, so run stays in the
	// creation retry loop until the context ends.
	socketPath := filepath.Join(dir, "run", "clack.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	defer listener.Close()

	configPath := filepath.Join(dir, "custom.conf")
	require.NoError(t, os.WriteFile(configPath, []byte("sound_enable = false\nshake_enable = false\nretry_delay_ms = 10\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := Execute(ctx, []string{"--config", configPath, "run"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	require.NotContains(t, stderr.String(), "create event socket")
}

func TestExecuteEchoesConfigWarnings(t *testing.T) {
	dir := setupEnv(t)

	configPath := filepath.Join(dir, "custom.conf")
	require.NoError(t, os.WriteFile(configPath, []byte("volume_knob = 11\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{"--config", configPath, "status"}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), `unknown key "volume_knob"`)
}
