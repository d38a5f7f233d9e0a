package ipc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendDeliversCodes(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "clack.sock")
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

		buf := make([]byte, 16)
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

	require.NoError(t, Send(context.Background(), socketPath, []byte("esx"), time.Second))

	select {
	case got := <-received:
		require.Equal(t, []byte("esx"), got)
	case <-time.After(2 * time.Second):
		t.Fatalf("codes never arrived")
	}
}

func TestSendFailsWithoutListener(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "clack.sock")
	err := Send(context.Background(), socketPath, []byte{'s'}, 100*time.Millisecond)
	require.Error(t, err)
}

func TestProbeReportsLiveness(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "clack.sock")

	alive, err := Probe(context.Background(), socketPath, 100*time.Millisecond)
	require.NoError(t, err)
	require.False(t, alive)

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	defer listener.Close()

	alive, err = Probe(context.Background(), socketPath, 100*time.Millisecond)
	require.NoError(t, err)
	require.True(t, alive)
}
