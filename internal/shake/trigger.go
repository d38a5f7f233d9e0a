// Package shake runs the window-shake animation: a debounced trigger
// that oscillates the foreground application's primary window and puts
// it back exactly where it was.
package shake

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rbright/clackd/internal/config"
	"github.com/rbright/clackd/internal/wm"
)

const animationCallBudget = 2 * time.Second

// Sleeper suspends between oscillation steps; injected for tests.
type Sleeper func(time.Duration)

// Params are the fixed animation settings.
type Params struct {
	Iterations         int
	AmplitudePX        int
	Delay              time.Duration
	MinWindowDimension int
}

// ParamsFromConfig converts the config section into animation params.
func ParamsFromConfig(cfg config.ShakeConfig) Params {
	return Params{
		Iterations:         cfg.Iterations,
		AmplitudePX:        cfg.AmplitudePX,
		Delay:              time.Duration(cfg.DelayMS) * time.Millisecond,
		MinWindowDimension: cfg.MinWindowDimension,
	}
}

// Trigger guards the animation with a single atomic flag: at most one
// animation is in flight, extra triggers are no-ops. The flag is the
// only state shared between the dispatch path and the animation
// goroutine.
type Trigger struct {
	logger  *slog.Logger
	windows wm.Client
	params  Params
	sleep   Sleeper

	shaking atomic.Bool

	mu   sync.Mutex
	done chan struct{}
}

// NewTrigger wires the animation against a window client. A nil
// sleeper falls back to time.Sleep.
func NewTrigger(logger *slog.Logger, windows wm.Client, params Params, sleep Sleeper) *Trigger {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Trigger{
		logger:  logger,
		windows: windows,
		params:  params,
		sleep:   sleep,
	}
}

// TryTrigger starts the animation unless one is already running.
// Returns whether this call acquired the animation slot. Never blocks.
func (t *Trigger) TryTrigger() bool {
	if !t.shaking.CompareAndSwap(false, true) {
		return false
	}

	done := make(chan struct{})
	t.mu.Lock()
	t.done = done
	t.mu.Unlock()

	go func() {
		defer close(done)
		defer t.shaking.Store(false)
		t.animate()
	}()

	return true
}

// Shaking reports whether an animation is currently in flight.
func (t *Trigger) Shaking() bool {
	return t.shaking.Load()
}

// Wait joins the most recently started animation. Used on shutdown and
// in tests; returns immediately when nothing was ever triggered.
func (t *Trigger) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done != nil {
		<-done
	}
}

// animate locates the foreground process's primary window and wiggles
// it. Every failure path is a silent skip: the effect is best-effort
// and the flag is cleared by the caller's defer regardless.
func (t *Trigger) animate() {
	budget := time.Duration(t.params.Iterations)*t.params.Delay + animationCallBudget
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	active, err := t.windows.Active(ctx)
	if err != nil {
		t.logger.Debug("shake skipped: no foreground window", "error", err.Error())
		return
	}

	windows, err := t.windows.Windows(ctx)
	if err != nil {
		t.logger.Debug("shake skipped: window enumeration failed", "error", err.Error())
		return
	}

	target, ok := wm.Locate(windows, active.PID, t.params.MinWindowDimension)
	if !ok {
		t.logger.Debug("shake skipped: no qualifying window", "pid", active.PID)
		return
	}
	if target.Maximized() {
		t.logger.Debug("shake skipped: window maximized", "address", target.Address)
		return
	}

	x, y := target.At[0], target.At[1]
	for i := 0; i < t.params.Iterations; i++ {
		offset := t.params.AmplitudePX
		if i%2 == 1 {
			offset = -t.params.AmplitudePX
		}
		if err := t.windows.Move(ctx, target.Address, x+offset, y); err != nil {
			t.logger.Debug("shake aborted mid-animation", "error", err.Error())
			break
		}
		t.sleep(t.params.Delay)
	}

	// Final snap back to the exact original coordinates.
	if err := t.windows.Move(ctx, target.Address, x, y); err != nil {
		t.logger.Debug("shake restore failed", "address", target.Address, "error", err.Error())
	}
}
