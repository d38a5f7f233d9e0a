// Package dispatch classifies event codes and fans them out to the
// sound player and the shake trigger.
package dispatch

import (
	"log/slog"

	"github.com/rbright/clackd/internal/sound"
)

// Classify maps one event code to its sound asset and whether the
// window shake fires. Every byte outside the known set is a plain
// click.
func Classify(code byte) (sound.Asset, bool) {
	switch code {
	case 'e':
		return sound.AssetEnter, false
	case 's':
		return sound.AssetSpace, false
	case 'x':
		return sound.AssetEnter, true
	default:
		return sound.AssetClick, false
	}
}

// Shaker is the trigger surface the dispatcher needs.
type Shaker interface {
	TryTrigger() bool
}

// Dispatcher reacts to one event code at a time. Both side effects are
// non-blocking, so dispatch never stalls the session loop.
type Dispatcher struct {
	logger *slog.Logger
	player sound.Player
	shaker Shaker
}

// New builds a dispatcher. A nil shaker disables the window effect.
func New(logger *slog.Logger, player sound.Player, shaker Shaker) *Dispatcher {
	return &Dispatcher{logger: logger, player: player, shaker: shaker}
}

// Dispatch plays the code's sound and, for the shake code, arms the
// trigger. Playback requests go out in the exact order codes arrive.
func (d *Dispatcher) Dispatch(code byte) {
	asset, shakes := Classify(code)
	d.player.Play(asset)

	if shakes && d.shaker != nil {
		started := d.shaker.TryTrigger()
		d.logger.Debug("shake requested", "code", code, "started", started)
	}
}
