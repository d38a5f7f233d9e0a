// Package wm talks to the Hyprland compositor: window enumeration,
// the active window, and exact-position moves.
package wm

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Window is the subset of the hyprctl client contract the daemon needs.
type Window struct {
	Address    string `json:"address"`
	Title      string `json:"title"`
	PID        int    `json:"pid"`
	Mapped     bool   `json:"mapped"`
	Hidden     bool   `json:"hidden"`
	Fullscreen int    `json:"fullscreen"`
	At         [2]int `json:"at"`
	Size       [2]int `json:"size"`
}

// Visible reports whether the compositor currently shows the window.
func (w Window) Visible() bool {
	return w.Mapped && !w.Hidden
}

// Maximized reports whether the window occupies a fullscreen mode.
func (w Window) Maximized() bool {
	return w.Fullscreen != 0
}

// Area is the on-screen rectangle area in pixels.
func (w Window) Area() int {
	if w.Size[0] <= 0 || w.Size[1] <= 0 {
		return 0
	}
	return w.Size[0] * w.Size[1]
}

// Client is the window-subsystem surface used by the shake animation.
type Client interface {
	Windows(ctx context.Context) ([]Window, error)
	Active(ctx context.Context) (Window, error)
	Move(ctx context.Context, address string, x, y int) error
}

// CLIClient implements Client through the hyprctl binary.
type CLIClient struct{}

// Windows enumerates all top-level windows known to the compositor.
func (CLIClient) Windows(ctx context.Context) ([]Window, error) {
	output, err := runHyprctlOutput(ctx, "-j", "clients")
	if err != nil {
		return nil, err
	}

	var windows []Window
	if err := json.Unmarshal(output, &windows); err != nil {
		return nil, fmt.Errorf("decode hyprctl clients json: %w", err)
	}
	return windows, nil
}

// Active fetches and validates the focused-window contract from hyprctl.
func (CLIClient) Active(ctx context.Context) (Window, error) {
	output, err := runHyprctlOutput(ctx, "-j", "activewindow")
	if err != nil {
		return Window{}, err
	}

	var window Window
	if err := json.Unmarshal(output, &window); err != nil {
		return Window{}, fmt.Errorf("decode hyprctl activewindow json: %w", err)
	}
	window.Address = strings.TrimSpace(window.Address)
	if window.Address == "" {
		return Window{}, fmt.Errorf("hyprctl activewindow returned empty address")
	}
	return window, nil
}

// Move places the window at exact pixel coordinates.
func (CLIClient) Move(ctx context.Context, address string, x, y int) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("movewindowpixel requires a window address")
	}
	payload := fmt.Sprintf("exact %d %d,address:%s", x, y, address)
	return runHyprctl(ctx, "--quiet", "dispatch", "movewindowpixel", payload)
}

func runHyprctl(ctx context.Context, args ...string) error {
	_, err := runHyprctlOutput(ctx, args...)
	return err
}

func runHyprctlOutput(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "hyprctl", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return nil, fmt.Errorf("hyprctl %v failed: %w", args, err)
		}
		return nil, fmt.Errorf("hyprctl %v failed: %w (%s)", args, err, trimmed)
	}
	return out, nil
}
