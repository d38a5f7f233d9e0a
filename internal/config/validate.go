package config

import "fmt"

// Validate enforces config invariants and returns non-fatal warnings.
//
// Out-of-range values are clamped back to defaults with a warning so a
// bad config file can never wedge the daemon.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)
	defaults := Default()

	if cfg.Channel.RetryDelayMS <= 0 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("retry_delay_ms must be > 0; using %d", defaults.Channel.RetryDelayMS)})
	}
	if cfg.Channel.IdleYieldMS <= 0 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("idle_yield_ms must be > 0; using %d", defaults.Channel.IdleYieldMS)})
	}
	if cfg.Sound.Volume <= 0 || cfg.Sound.Volume > 1 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("sound_volume must be in (0, 1]; using %.2f", defaults.Sound.Volume)})
	}
	if cfg.Shake.Iterations <= 0 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("shake_iterations must be > 0; using %d", defaults.Shake.Iterations)})
	}
	if cfg.Shake.AmplitudePX <= 0 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("shake_amplitude_px must be > 0; using %d", defaults.Shake.AmplitudePX)})
	}
	if cfg.Shake.DelayMS < 0 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("shake_delay_ms must be >= 0; using %d", defaults.Shake.DelayMS)})
	}
	if cfg.Shake.MinWindowDimension <= 0 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("min_window_dimension must be > 0; using %d", defaults.Shake.MinWindowDimension)})
	}

	return warnings, nil
}

// Normalize replaces out-of-range values with defaults, mirroring the
// clamps Validate warns about.
func Normalize(cfg Config) Config {
	defaults := Default()

	if cfg.Channel.RetryDelayMS <= 0 {
		cfg.Channel.RetryDelayMS = defaults.Channel.RetryDelayMS
	}
	if cfg.Channel.IdleYieldMS <= 0 {
		cfg.Channel.IdleYieldMS = defaults.Channel.IdleYieldMS
	}
	if cfg.Sound.Volume <= 0 || cfg.Sound.Volume > 1 {
		cfg.Sound.Volume = defaults.Sound.Volume
	}
	if cfg.Shake.Iterations <= 0 {
		cfg.Shake.Iterations = defaults.Shake.Iterations
	}
	if cfg.Shake.AmplitudePX <= 0 {
		cfg.Shake.AmplitudePX = defaults.Shake.AmplitudePX
	}
	if cfg.Shake.DelayMS < 0 {
		cfg.Shake.DelayMS = defaults.Shake.DelayMS
	}
	if cfg.Shake.MinWindowDimension <= 0 {
		cfg.Shake.MinWindowDimension = defaults.Shake.MinWindowDimension
	}

	return cfg
}
