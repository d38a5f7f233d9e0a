// Package config resolves, parses, validates, and defaults clackd configuration.
package config

// Config is the fully materialized runtime configuration used by clackd.
type Config struct {
	Channel ChannelConfig
	Sound   SoundConfig
	Shake   ShakeConfig
}

// ChannelConfig controls the event socket and the session loop timing.
type ChannelConfig struct {
	SocketPath   string
	RetryDelayMS int
	IdleYieldMS  int
}

// SoundConfig controls playback and optional per-asset file overrides.
type SoundConfig struct {
	Enable    bool
	EnterFile string
	SpaceFile string
	ClickFile string
	Volume    float64
}

// ShakeConfig controls the window shake animation parameters.
type ShakeConfig struct {
	Enable             bool
	Iterations         int
	AmplitudePX        int
	DelayMS            int
	MinWindowDimension int
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
