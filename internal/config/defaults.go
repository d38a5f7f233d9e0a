package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Channel: ChannelConfig{
			SocketPath:   "",
			RetryDelayMS: 1000,
			IdleYieldMS:  10,
		},
		Sound: SoundConfig{
			Enable: true,
			Volume: 0.18,
		},
		Shake: ShakeConfig{
			Enable:             true,
			Iterations:         6,
			AmplitudePX:        15,
			DelayMS:            20,
			MinWindowDimension: 100,
		},
	}
}
