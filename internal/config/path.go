package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath applies CLI/XDG/home fallback rules for config.conf location.
func ResolvePath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "clackd", "config.conf"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config fallback")
	}

	return filepath.Join(home, ".config", "clackd", "config.conf"), nil
}

// ResolveSocketPath returns the well-known event socket location.
//
// An explicit socket_path wins; otherwise the socket lives in
// XDG_RUNTIME_DIR.
func ResolveSocketPath(cfg Config) (string, error) {
	if strings.TrimSpace(cfg.Channel.SocketPath) != "" {
		return cfg.Channel.SocketPath, nil
	}

	runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR"))
	if runtimeDir == "" {
		return "", errors.New("XDG_RUNTIME_DIR is not set")
	}
	return filepath.Join(runtimeDir, "clack.sock"), nil
}
