package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads key=value configuration content over a base config.
//
// Unknown keys and malformed values are reported as line-tagged
// warnings and the base value is kept; only Validate failures are
// fatal.
func Parse(content string, base Config) (Config, []Warning, error) {
	cfg := base
	warnings := make([]Warning, 0)

	for lineNo, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			warnings = append(warnings, Warning{Line: lineNo + 1, Message: fmt.Sprintf("not a key=value line: %q", line)})
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if warn := applyKey(&cfg, key, value); warn != "" {
			warnings = append(warnings, Warning{Line: lineNo + 1, Message: warn})
		}
	}

	validated, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validated...)

	return cfg, warnings, nil
}

// applyKey sets one known config key, returning a warning message for
// unknown keys or unparseable values.
func applyKey(cfg *Config, key, value string) string {
	switch key {
	case "socket_path":
		cfg.Channel.SocketPath = value
	case "retry_delay_ms":
		return applyInt(&cfg.Channel.RetryDelayMS, key, value)
	case "idle_yield_ms":
		return applyInt(&cfg.Channel.IdleYieldMS, key, value)
	case "sound_enable":
		return applyBool(&cfg.Sound.Enable, key, value)
	case "sound_enter_file":
		cfg.Sound.EnterFile = value
	case "sound_space_file":
		cfg.Sound.SpaceFile = value
	case "sound_click_file":
		cfg.Sound.ClickFile = value
	case "sound_volume":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Sprintf("%s: invalid float %q", key, value)
		}
		cfg.Sound.Volume = parsed
	case "shake_enable":
		return applyBool(&cfg.Shake.Enable, key, value)
	case "shake_iterations":
		return applyInt(&cfg.Shake.Iterations, key, value)
	case "shake_amplitude_px":
		return applyInt(&cfg.Shake.AmplitudePX, key, value)
	case "shake_delay_ms":
		return applyInt(&cfg.Shake.DelayMS, key, value)
	case "min_window_dimension":
		return applyInt(&cfg.Shake.MinWindowDimension, key, value)
	default:
		return fmt.Sprintf("unknown key %q", key)
	}
	return ""
}

func applyInt(target *int, key, value string) string {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Sprintf("%s: invalid integer %q", key, value)
	}
	*target = parsed
	return ""
}

func applyBool(target *bool, key, value string) string {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Sprintf("%s: invalid boolean %q", key, value)
	}
	*target = parsed
	return ""
}
