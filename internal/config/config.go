// Package config holds the runtime configuration surface of the gesture
// client. Values come from a YAML file with flag overrides on top;
// threshold, cooldown, fast-mode and server URL stay mutable at runtime
// through the admin socket.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full daemon configuration.
type Config struct {
	ServerURL      string        `yaml:"server_url"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	AutoReconnect  bool          `yaml:"auto_reconnect"`

	FastMode        bool          `yaml:"fast_mode"`
	Threshold       float64       `yaml:"confidence_threshold"`
	Cooldown        time.Duration `yaml:"cooldown"`
	InputDelay      time.Duration `yaml:"input_delay"`
	QueueCapacity   int           `yaml:"queue_capacity"`
	MaxDrainPerTick int           `yaml:"max_drain_per_tick"`

	TickRate    int    `yaml:"tick_rate"`
	LogLevel    string `yaml:"log_level"`
	AdminSocket string `yaml:"admin_socket"`
	HistoryPath string `yaml:"history_path"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ServerURL:       "ws://127.0.0.1:8765/gestures",
		ReconnectDelay:  3 * time.Second,
		AutoReconnect:   true,
		FastMode:        true,
		Threshold:       0.6,
		Cooldown:        300 * time.Millisecond,
		InputDelay:      100 * time.Millisecond,
		QueueCapacity:   10,
		MaxDrainPerTick: 5,
		TickRate:        60,
		LogLevel:        "info",
		AdminSocket:     "",
		HistoryPath:     "",
	}
}

// Load reads a YAML file over the defaults. A missing file is not an
// error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the client cannot run with.
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("confidence_threshold must be in [0,1], got %v", c.Threshold)
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("reconnect_delay must be positive, got %v", c.ReconnectDelay)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("cooldown must not be negative, got %v", c.Cooldown)
	}
	if c.InputDelay < 0 {
		return fmt.Errorf("input_delay must not be negative, got %v", c.InputDelay)
	}
	if c.QueueCapacity < 1 {
		return fmt.Errorf("queue_capacity must be at least 1, got %d", c.QueueCapacity)
	}
	if c.MaxDrainPerTick < 1 {
		return fmt.Errorf("max_drain_per_tick must be at least 1, got %d", c.MaxDrainPerTick)
	}
	if c.TickRate < 1 || c.TickRate > 1000 {
		return fmt.Errorf("tick_rate must be between 1 and 1000, got %d", c.TickRate)
	}
	return nil
}
