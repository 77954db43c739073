// Package config provides YAML-based configuration loading for Power 2048.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/power2048/internal/games/power2048"
)

// Config is the top-level configuration file.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Input   InputConfig   `yaml:"input"`
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// GameConfig selects the variant a new game starts with.
type GameConfig struct {
	Base int    `yaml:"base"` // 2, 3, 4 or 5
	Mode string `yaml:"mode"` // "classic", "30", "60" or "300"
	Seed int64  `yaml:"seed"` // 0 = time-based
}

// InputConfig tunes input mapping.
type InputConfig struct {
	SwipeThreshold float64 `yaml:"swipe_threshold"` // Minimum swipe length in pixels
}

// StorageConfig locates the scores database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SSHConfig configures the SSH host.
type SSHConfig struct {
	Address            string `yaml:"address"`
	HostKey            string `yaml:"host_key"` // Empty = ~/.power2048/host_key
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// IdleTimeout returns the idle timeout as a duration.
func (c SSHConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMinutes) * time.Minute
}

// HTTPConfig configures the HTTP API host.
type HTTPConfig struct {
	Address             string `yaml:"address"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// ReadTimeout returns the read timeout as a duration.
func (c HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration.
func (c HTTPConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Mode returns the parsed game mode. Call Validate first.
func (c Config) Mode() power2048.Mode {
	mode, err := power2048.ParseMode(c.Game.Mode)
	if err != nil {
		return power2048.ModeClassic
	}
	return mode
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := power2048.ValidateBase(c.Game.Base); err != nil {
		return fmt.Errorf("%w: game.base: %w", ErrInvalidConfig, err)
	}
	if _, err := power2048.ParseMode(c.Game.Mode); err != nil {
		return fmt.Errorf("%w: game.mode: %w", ErrInvalidConfig, err)
	}
	if c.Input.SwipeThreshold <= 0 {
		return fmt.Errorf("%w: input.swipe_threshold must be positive, got %v", ErrInvalidConfig, c.Input.SwipeThreshold)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path is empty", ErrInvalidConfig)
	}
	if c.SSH.IdleTimeoutMinutes < 0 {
		return fmt.Errorf("%w: ssh.idle_timeout_minutes is negative", ErrInvalidConfig)
	}
	if c.HTTP.ReadTimeoutSeconds < 0 || c.HTTP.WriteTimeoutSeconds < 0 {
		return fmt.Errorf("%w: http timeouts must not be negative", ErrInvalidConfig)
	}
	return nil
}
