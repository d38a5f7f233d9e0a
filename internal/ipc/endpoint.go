// Package ipc owns the well-known unix socket the editor pushes event
// codes through: creation with retry, single-peer accept, byte reads,
// and reset-for-reuse.
package ipc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const probeTimeout = 250 * time.Millisecond

// SleepFunc suspends for d or returns early with the context error.
// Injected so retry loops are testable without wall-clock sleeps.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Endpoint is the process-wide event socket. One instance exists per
// daemon; it serves one connected peer at a time and is reset between
// peers, never recreated.
type Endpoint struct {
	path     string
	listener net.Listener
	logger   *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

// Create allocates the event socket under path, retrying indefinitely
// on contention. A responsive owner means another daemon holds the
// name; a stale socket file is removed. Create only fails when ctx is
// cancelled — callers always receive a ready-to-accept endpoint
// otherwise.
func Create(ctx context.Context, path string, retryDelay time.Duration, sleep SleepFunc, logger *slog.Logger) (*Endpoint, error) {
	if sleep == nil {
		sleep = Sleep
	}

	for {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			logger.Warn("ensure socket dir failed; retrying", "path", path, "error", err.Error())
			if err := sleep(ctx, retryDelay); err != nil {
				return nil, err
			}
			continue
		}

		listener, err := net.Listen("unix", path)
		if err == nil {
			_ = os.Chmod(path, 0o600)
			return &Endpoint{path: path, listener: listener, logger: logger}, nil
		}

		if isAddrInUse(err) {
			alive, probeErr := Probe(ctx, path, probeTimeout)
			if probeErr == nil && !alive {
				if removeErr := os.Remove(path); removeErr == nil || os.IsNotExist(removeErr) {
					logger.Info("removed stale socket", "path", path)
					continue
				}
			}
			logger.Info("socket busy; retrying", "path", path, "retry_delay", retryDelay.String())
		} else {
			logger.Warn("socket creation failed; retrying", "path", path, "error", err.Error())
		}

		if err := sleep(ctx, retryDelay); err != nil {
			return nil, err
		}
	}
}

// Path returns the socket location the endpoint was created under.
func (e *Endpoint) Path() string {
	return e.path
}

// Accept blocks until a peer connects. A peer already being connected
// counts as success, not an error.
func (e *Endpoint) Accept(ctx context.Context) error {
	e.mu.Lock()
	connected := e.conn != nil
	e.mu.Unlock()
	if connected {
		return nil
	}

	conn, err := e.listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("accept peer: %w", err)
	}

	e.mu.Lock()
	e.conn = conn
	e.mu.Unlock()
	return nil
}

// ReadByte blocks until the peer delivers one byte. The second return
// is false when the session is over (peer disconnect or read error).
// Zero-length reads without an error are not a disconnect; the read is
// simply retried.
func (e *Endpoint) ReadByte() (byte, bool) {
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()
	if conn == nil {
		return 0, false
	}

	var buf [1]byte
	for {
		n, err := conn.Read(buf[:])
		if n > 0 {
			return buf[0], true
		}
		if err != nil {
			return 0, false
		}
	}
}

// Reset terminates the current peer session, if any, so the socket can
// accept the next peer. Safe to call repeatedly.
func (e *Endpoint) Reset() {
	e.mu.Lock()
	conn := e.conn
	e.conn = nil
	e.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// Close tears the endpoint down for process shutdown, unblocking any
// pending Accept or ReadByte.
func (e *Endpoint) Close() {
	e.Reset()
	_ = e.listener.Close()
}

func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "address already in use")
}
