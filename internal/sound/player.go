package sound

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfreymuth/pulse"

	"github.com/rbright/clackd/internal/config"
)

const playQueueDepth = 64

// PulsePlayer plays clack cues through the pulse server. Requests are
// queued and drained by a single worker so playback is issued in
// dispatch order; a full queue drops the request instead of blocking.
type PulsePlayer struct {
	logger *slog.Logger
	client *pulse.Client
	cues   map[Asset][]int16
	files  map[Asset]string
	queue  chan Asset
	done   chan struct{}
}

// NewPulsePlayer connects to the pulse server and starts the playback
// worker. Fails only when no server is reachable.
func NewPulsePlayer(logger *slog.Logger, cfg config.SoundConfig) (*PulsePlayer, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("clackd"),
		pulse.ClientApplicationIconName("input-keyboard"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}

	p := &PulsePlayer{
		logger: logger,
		client: client,
		cues:   synthesizeClacks(cfg.Volume),
		files:  fileOverrides(cfg),
		queue:  make(chan Asset, playQueueDepth),
		done:   make(chan struct{}),
	}

	go p.drain()
	return p, nil
}

// Play queues one playback request. Never blocks; a saturated queue
// drops the request (playback is best-effort by contract).
func (p *PulsePlayer) Play(asset Asset) {
	select {
	case p.queue <- asset:
	default:
		p.logger.Debug("playback queue full; dropping request", "asset", asset.String())
	}
}

// Close stops the worker after the queue empties and releases the
// pulse connection.
func (p *PulsePlayer) Close() {
	close(p.queue)
	<-p.done
	p.client.Close()
}

func (p *PulsePlayer) drain() {
	defer close(p.done)
	for asset := range p.queue {
		if err := p.playOnce(asset); err != nil {
			p.logger.Debug("playback failed", "asset", asset.String(), "error", err.Error())
		}
	}
}

func (p *PulsePlayer) playOnce(asset Asset) error {
	if path := p.files[asset]; path != "" {
		if err := playCueFile(path); err == nil {
			return nil
		}
	}
	return p.playSynthCue(p.cues[asset])
}

// playCueFile plays a user-supplied sample through pw-play.
func playCueFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("stat cue file %q: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pw-play", "--media-role", "Notification", path)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play cue file %q: %w", path, err)
	}
	return nil
}

func (p *PulsePlayer) playSynthCue(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cursor >= len(samples) {
			return 0, pulse.EndOfData
		}

		n := copy(buf, samples[cursor:])
		cursor += n
		if cursor >= len(samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := p.client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackLatency(0.02),
		pulse.PlaybackMediaName("clackd keystroke cue"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play cue stream: %w", err)
	}

	return nil
}

// fileOverrides maps assets to their configured sample files.
func fileOverrides(cfg config.SoundConfig) map[Asset]string {
	return map[Asset]string{
		AssetEnter: expandUserPath(cfg.EnterFile),
		AssetSpace: expandUserPath(cfg.SpaceFile),
		AssetClick: expandUserPath(cfg.ClickFile),
	}
}

func expandUserPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if raw == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return raw
		}
		return home
	}
	if !strings.HasPrefix(raw, "~/") {
		return raw
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return raw
	}
	return filepath.Join(home, strings.TrimPrefix(raw, "~/"))
}

// NopPlayer logs playback requests instead of playing them. Used when
// no pulse server is reachable or sound is disabled; the daemon keeps
// servicing events either way.
type NopPlayer struct {
	Logger *slog.Logger
}

func (n NopPlayer) Play(asset Asset) {
	if n.Logger != nil {
		n.Logger.Debug("playback skipped", "asset", asset.String())
	}
}
