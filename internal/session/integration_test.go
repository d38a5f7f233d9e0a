package session_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/clackd/internal/dispatch"
	"github.com/rbright/clackd/internal/ipc"
	"github.com/rbright/clackd/internal/session"
	"github.com/rbright/clackd/internal/shake"
	"github.com/rbright/clackd/internal/sound"
	"github.com/rbright/clackd/internal/wm"
)

type channelPlayer struct {
	played chan sound.Asset
}

func (p *channelPlayer) Play(asset sound.Asset) {
	select {
	case p.played <- asset:
	default:
	}
}

type recordingWM struct {
	mu      sync.Mutex
	active  wm.Window
	windows []wm.Window
	moves   [][3]any
}

func (r *recordingWM) Active(context.Context) (wm.Window, error) { return r.active, nil }

func (r *recordingWM) Windows(context.Context) ([]wm.Window, error) { return r.windows, nil }

func (r *recordingWM) Move(_ context.Context, address string, x, y int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves = append(r.moves, [3]any{address, x, y})
	return nil
}

func (r *recordingWM) moveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.moves)
}

func (r *recordingWM) lastMove() [3]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.moves[len(r.moves)-1]
}

// TestDaemonEndToEnd drives the real unix-socket endpoint through two
// client sessions: a space keystroke, then a shake keystroke against a
// fake compositor.
func TestDaemonEndToEnd(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	socketPath := filepath.Join(t.TempDir(), "clack.sock")

	endpoint, err := ipc.Create(context.Background(), socketPath, time.Second, nil, logger)
	require.NoError(t, err)

	target := wm.Window{Address: "0xterm", PID: 42, Mapped: true, At: [2]int{300, 120}, Size: [2]int{1200, 800}}
	compositor := &recordingWM{
		active:  wm.Window{Address: "0xterm", PID: 42},
		windows: []wm.Window{target},
	}

	params := shake.Params{Iterations: 6, AmplitudePX: 15, Delay: 0, MinWindowDimension: 100}
	trigger := shake.NewTrigger(logger, compositor, params, func(time.Duration) {})
	player := &channelPlayer{played: make(chan sound.Asset, 16)}
	dispatcher := dispatch.New(logger, player, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-ctx.Done()
		endpoint.Close()
	}()

	controller := session.NewController(logger, endpoint, dispatcher, time.Millisecond, nil)
	runDone := make(chan error, 1)
	go func() { runDone <- controller.Run(ctx) }()

	// First session: one space keystroke, then disconnect.
	require.NoError(t, ipc.Send(context.Background(), socketPath, []byte{'s'}, time.Second))

	select {
	case asset := <-player.played:
		require.Equal(t, sound.AssetSpace, asset)
	case <-time.After(2 * time.Second):
		t.Fatalf("space playback request never issued")
	}

	// Channel must be reset and ready for a second connection.
	require.NoError(t, ipc.Send(context.Background(), socketPath, []byte{'x'}, time.Second))

	select {
	case asset := <-player.played:
		require.Equal(t, sound.AssetEnter, asset)
	case <-time.After(2 * time.Second):
		t.Fatalf("enter playback request never issued")
	}

	// One full animation: 6 oscillations plus the restoring move, with
	// the window back at its exact original coordinates.
	require.Eventually(t, func() bool {
		return compositor.moveCount() == 7
	}, 2*time.Second, 10*time.Millisecond)
	trigger.Wait()

	require.Equal(t, [3]any{"0xterm", 300, 120}, compositor.lastMove())
	require.False(t, trigger.Shaking())

	cancel()
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("session loop did not stop after cancellation")
	}
}

// armingShaker signals once the dispatcher has asked for a shake, so
// tests can join the animation without sleeping.
type armingShaker struct {
	trigger *shake.Trigger
	armed   chan struct{}
}

func (a *armingShaker) TryTrigger() bool {
	ok := a.trigger.TryTrigger()
	select {
	case a.armed <- struct{}{}:
	default:
	}
	return ok
}

// TestDaemonEndToEndMaximizedWindow sends the shake code while the
// foreground window is fullscreen: sound plays, nothing moves.
func TestDaemonEndToEndMaximizedWindow(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	socketPath := filepath.Join(t.TempDir(), "clack.sock")

	endpoint, err := ipc.Create(context.Background(), socketPath, time.Second, nil, logger)
	require.NoError(t, err)

	compositor := &recordingWM{
		active:  wm.Window{Address: "0xterm", PID: 42},
		windows: []wm.Window{{Address: "0xterm", PID: 42, Mapped: true, Fullscreen: 1, Size: [2]int{1920, 1080}}},
	}

	trigger := shake.NewTrigger(logger, compositor, shake.Params{Iterations: 6, AmplitudePX: 15, MinWindowDimension: 100}, func(time.Duration) {})
	shaker := &armingShaker{trigger: trigger, armed: make(chan struct{}, 1)}
	player := &channelPlayer{played: make(chan sound.Asset, 16)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-ctx.Done()
		endpoint.Close()
	}()

	controller := session.NewController(logger, endpoint, dispatch.New(logger, player, shaker), time.Millisecond, nil)
	runDone := make(chan error, 1)
	go func() { runDone <- controller.Run(ctx) }()

	require.NoError(t, ipc.Send(context.Background(), socketPath, []byte{'x'}, time.Second))

	select {
	case asset := <-player.played:
		require.Equal(t, sound.AssetEnter, asset)
	case <-time.After(2 * time.Second):
		t.Fatalf("enter playback request never issued")
	}

	select {
	case <-shaker.armed:
	case <-time.After(2 * time.Second):
		t.Fatalf("shake was never requested")
	}

	trigger.Wait()
	require.Equal(t, 0, compositor.moveCount())
	require.False(t, trigger.Shaking())

	cancel()
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("session loop did not stop after cancellation")
	}
}
