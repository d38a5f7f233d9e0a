// Package app wires CLI commands to the daemon's runtime components.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rbright/clackd/internal/cli"
	"github.com/rbright/clackd/internal/config"
	"github.com/rbright/clackd/internal/dispatch"
	"github.com/rbright/clackd/internal/doctor"
	"github.com/rbright/clackd/internal/ipc"
	"github.com/rbright/clackd/internal/logging"
	"github.com/rbright/clackd/internal/session"
	"github.com/rbright/clackd/internal/shake"
	"github.com/rbright/clackd/internal/sound"
	"github.com/rbright/clackd/internal/version"
	"github.com/rbright/clackd/internal/wm"
)

const sendTimeout = 2 * time.Second

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("clackd"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("clackd"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandStatus:
		return r.commandStatus(ctx, cfgLoaded.Config)
	case cli.CommandSend:
		return r.commandSend(ctx, cfgLoaded.Config, parsed.SendCodes)
	case cli.CommandRun:
		return r.commandRun(ctx, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// commandStatus probes the event socket for a live daemon.
func (r Runner) commandStatus(ctx context.Context, cfg config.Config) int {
	socketPath, err := config.ResolveSocketPath(cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	alive, err := ipc.Probe(ctx, socketPath, sendTimeout)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if !alive {
		fmt.Fprintf(r.Stdout, "clackd is not running (socket %s)\n", socketPath)
		return 1
	}
	fmt.Fprintf(r.Stdout, "clackd is running (socket %s)\n", socketPath)
	return 0
}

// commandSend pushes event codes at the daemon, standing in for the
// editor-side producer.
func (r Runner) commandSend(ctx context.Context, cfg config.Config, codes string) int {
	socketPath, err := config.ResolveSocketPath(cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	if err := ipc.Send(ctx, socketPath, []byte(codes), sendTimeout); err != nil {
		fmt.Fprintf(r.Stderr, "error: send event codes: %v\n", err)
		return 1
	}
	return 0
}

// commandRun starts the daemon and serves sessions until ctx ends.
func (r Runner) commandRun(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := config.ResolveSocketPath(cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	player, playerClose := r.buildPlayer(cfg, logger)
	defer playerClose()

	var shaker dispatch.Shaker
	var trigger *shake.Trigger
	if cfg.Shake.Enable {
		trigger = shake.NewTrigger(logger, wm.CLIClient{}, shake.ParamsFromConfig(cfg.Shake), nil)
		shaker = trigger
	}

	dispatcher := dispatch.New(logger, player, shaker)

	endpoint, err := ipc.Create(ctx, socketPath, time.Duration(cfg.Channel.RetryDelayMS)*time.Millisecond, nil, logger)
	if err != nil {
		if ctx.Err() != nil {
			// Shutdown requested while still retrying for the socket.
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: create event socket: %v\n", err)
		logger.Error("create event socket failed", "error", err.Error())
		return 1
	}

	go func() {
		<-ctx.Done()
		endpoint.Close()
	}()

	logger.Info("daemon listening", "socket", socketPath)
	fmt.Fprintf(r.Stdout, "clackd listening on %s\n", socketPath)

	controller := session.NewController(logger, endpoint, dispatcher, time.Duration(cfg.Channel.IdleYieldMS)*time.Millisecond, nil)
	runErr := controller.Run(ctx)

	endpoint.Close()
	if trigger != nil {
		trigger.Wait()
	}

	if runErr != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", runErr)
		return 1
	}
	return 0
}

// buildPlayer connects the pulse player, degrading to a logging no-op
// when sound is disabled or no server is reachable. The daemon serves
// events either way.
func (r Runner) buildPlayer(cfg config.Config, logger *slog.Logger) (sound.Player, func()) {
	if !cfg.Sound.Enable {
		return sound.NopPlayer{Logger: logger}, func() {}
	}

	player, err := sound.NewPulsePlayer(logger, cfg.Sound)
	if err != nil {
		fmt.Fprintf(r.Stderr, "warning: %v; running without sound\n", err)
		logger.Warn("pulse unavailable; running without sound", "error", err.Error())
		return sound.NopPlayer{Logger: logger}, func() {}
	}
	return player, player.Close
}
