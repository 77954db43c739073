package config

import (
	_ "embed"
)

//go:embed defaults/power2048.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			Base: 2,
			Mode: "classic",
		},
		Input: InputConfig{
			SwipeThreshold: 30,
		},
		Storage: StorageConfig{
			Path: "~/.power2048/scores.db",
		},
		SSH: SSHConfig{
			Address:            ":23234",
			IdleTimeoutMinutes: 30,
		},
		HTTP: HTTPConfig{
			Address:             ":8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
		},
	}
}
