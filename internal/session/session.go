// Package session drives the daemon's main loop: accept one peer,
// dispatch its event codes one byte at a time, reset, repeat.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rbright/clackd/internal/fsm"
)

// Endpoint is the channel surface the loop drives.
type Endpoint interface {
	Accept(ctx context.Context) error
	ReadByte() (byte, bool)
	Reset()
}

// Dispatcher consumes one event code. Must not block materially.
type Dispatcher interface {
	Dispatch(code byte)
}

// Sleeper is the idle-yield suspension; injected for tests.
type Sleeper func(time.Duration)

// Controller owns the accept/read/dispatch loop. It services exactly
// one peer at a time: a second connection waits in the listener
// backlog until the current session ends and Reset has run.
type Controller struct {
	logger     *slog.Logger
	endpoint   Endpoint
	dispatcher Dispatcher
	idleYield  time.Duration
	sleep      Sleeper

	mu    sync.RWMutex
	state fsm.State
}

// NewController builds the session loop. A nil sleeper falls back to
// time.Sleep.
func NewController(logger *slog.Logger, endpoint Endpoint, dispatcher Dispatcher, idleYield time.Duration, sleep Sleeper) *Controller {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Controller{
		logger:     logger,
		endpoint:   endpoint,
		dispatcher: dispatcher,
		idleYield:  idleYield,
		sleep:      sleep,
		state:      fsm.StateIdle,
	}
}

// State returns the current loop state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// transition applies one FSM event to the controller state.
func (c *Controller) transition(event fsm.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		c.logger.Warn("session state glitch", "error", err.Error())
		return
	}
	c.state = next
}

// Run loops forever until ctx is cancelled. A failed accept is the
// expected idle condition and costs one idle yield; a peer disconnect
// resets the endpoint and returns to accepting. The caller is
// responsible for closing the endpoint on shutdown so blocked accepts
// and reads unwind.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		if err := c.endpoint.Accept(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Debug("accept failed; idling", "error", err.Error())
			c.sleep(c.idleYield)
			continue
		}

		c.transition(fsm.EventConnect)
		c.logger.Info("peer connected")

		read := 0
		for {
			code, ok := c.endpoint.ReadByte()
			if !ok {
				break
			}
			c.dispatcher.Dispatch(code)
			read++
		}

		c.endpoint.Reset()
		c.transition(fsm.EventDisconnect)
		c.logger.Info("peer disconnected", "codes", read)
	}
}
