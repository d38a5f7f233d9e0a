// Package doctor runs runtime readiness diagnostics for config, tools,
// audio, and the event socket.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/jfreymuth/pulse"

	"github.com/rbright/clackd/internal/config"
	"github.com/rbright/clackd/internal/ipc"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, Check{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	})

	checks = append(checks, checkEnv("XDG_RUNTIME_DIR", func(v string) bool {
		return strings.TrimSpace(v) != "" || strings.TrimSpace(cfg.Config.Channel.SocketPath) != ""
	}, "runtime dir available for the event socket", "XDG_RUNTIME_DIR is empty and no socket_path override is set"))

	checks = append(checks, checkEnv("XDG_SESSION_TYPE", func(v string) bool {
		return strings.EqualFold(strings.TrimSpace(v), "wayland")
	}, "session type is wayland", "expected XDG_SESSION_TYPE=wayland"))

	if cfg.Config.Shake.Enable {
		checks = append(checks, checkEnv("HYPRLAND_INSTANCE_SIGNATURE", func(v string) bool {
			return strings.TrimSpace(v) != ""
		}, "Hyprland session detected", "HYPRLAND_INSTANCE_SIGNATURE is empty"))

		checks = append(checks, checkBinary("hyprctl", "window shake requires hyprctl"))
	}

	if cfg.Config.Sound.Enable {
		checks = append(checks, checkPulse())
		checks = append(checks, checkSoundFiles(cfg.Config.Sound)...)
	}

	checks = append(checks, checkDaemon(ctx, cfg.Config))

	return Report{Checks: checks}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkBinary validates that a tool is present on PATH.
func checkBinary(name, purpose string) Check {
	if _, err := exec.LookPath(name); err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("%s: %v", purpose, err)}
	}
	return Check{Name: name, Pass: true, Message: "found on PATH"}
}

// checkPulse verifies a pulse server accepts connections.
func checkPulse() Check {
	client, err := pulse.NewClient(pulse.ClientApplicationName("clackd-doctor"))
	if err != nil {
		return Check{Name: "pulse", Pass: false, Message: fmt.Sprintf("connect pulse server: %v", err)}
	}
	client.Close()
	return Check{Name: "pulse", Pass: true, Message: "pulse server reachable"}
}

// checkSoundFiles validates configured sample overrides.
func checkSoundFiles(cfg config.SoundConfig) []Check {
	checks := []Check{}
	overrides := map[string]string{
		"sound_enter_file": cfg.EnterFile,
		"sound_space_file": cfg.SpaceFile,
		"sound_click_file": cfg.ClickFile,
	}

	anySet := false
	for name, path := range overrides {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		anySet = true
		if _, err := os.Stat(path); err != nil {
			checks = append(checks, Check{Name: name, Pass: false, Message: fmt.Sprintf("stat %q: %v", path, err)})
		} else {
			checks = append(checks, Check{Name: name, Pass: true, Message: fmt.Sprintf("found %q", path)})
		}
	}

	if anySet {
		checks = append(checks, checkBinary("pw-play", "sample overrides require pw-play"))
	}

	return checks
}

// checkDaemon probes the event socket for a live daemon.
func checkDaemon(ctx context.Context, cfg config.Config) Check {
	path, err := config.ResolveSocketPath(cfg)
	if err != nil {
		return Check{Name: "daemon", Pass: false, Message: err.Error()}
	}

	alive, err := ipc.Probe(ctx, path, 250*time.Millisecond)
	if err != nil {
		return Check{Name: "daemon", Pass: false, Message: fmt.Sprintf("probe %q: %v", path, err)}
	}
	if alive {
		return Check{Name: "daemon", Pass: true, Message: fmt.Sprintf("daemon serving on %q", path)}
	}
	return Check{Name: "daemon", Pass: false, Message: fmt.Sprintf("no daemon on %q", path)}
}
