package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/hermes/internal/input"
	"github.com/dshills/hermes/internal/platform"
)

// Config holds every hermes setting.
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine" envPrefix:"ENGINE_"`
	Bus     BusConfig     `toml:"bus" yaml:"bus" envPrefix:"BUS_"`
	Log     LogConfig     `toml:"log" yaml:"log" envPrefix:"LOG_"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics" envPrefix:"METRICS_"`

	// Keys binds key specifications to console commands. File entries are
	// merged over the defaults; bind a key to "none" to remove it.
	Keys map[string]string `toml:"keys" yaml:"keys" env:"KEYS"`
}

// EngineConfig controls the frame loop and its overlay.
type EngineConfig struct {
	// TargetFPS caps the frame rate. Zero runs unthrottled.
	TargetFPS int `toml:"target_fps" yaml:"target_fps" env:"TARGET_FPS"`

	// Overlay draws frame statistics and log flyouts.
	Overlay bool `toml:"overlay" yaml:"overlay" env:"OVERLAY"`

	// FlyoutDuration is how long a log flyout stays on screen.
	FlyoutDuration Duration `toml:"flyout_duration" yaml:"flyout_duration" env:"FLYOUT_DURATION"`

	// MaxFlyouts bounds the number of visible flyouts.
	MaxFlyouts int `toml:"max_flyouts" yaml:"max_flyouts" env:"MAX_FLYOUTS"`

	// HistorySize is the number of frames kept for the FPS graph.
	HistorySize int `toml:"history_size" yaml:"history_size" env:"HISTORY_SIZE"`

	// AccentColor is the "#rrggbb" highlight color of the demo scene, or
	// "default" for the terminal's foreground.
	AccentColor string `toml:"accent_color" yaml:"accent_color" env:"ACCENT_COLOR"`
}

// BusConfig controls the event bus.
type BusConfig struct {
	// DebugChecks enables subscriber ID precondition panics.
	DebugChecks bool `toml:"debug_checks" yaml:"debug_checks" env:"DEBUG_CHECKS"`

	// InboxSize is the capacity of the cross-goroutine inbox.
	InboxSize int `toml:"inbox_size" yaml:"inbox_size" env:"INBOX_SIZE"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level" env:"LEVEL"`

	// File receives log output. Empty means stderr.
	File string `toml:"file" yaml:"file" env:"FILE"`

	// Development switches to the human readable console encoder.
	Development bool `toml:"development" yaml:"development" env:"DEVELOPMENT"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled starts the metrics server.
	Enabled bool `toml:"enabled" yaml:"enabled" env:"ENABLED"`

	// Addr is the listen address of the metrics server.
	Addr string `toml:"addr" yaml:"addr" env:"ADDR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			TargetFPS:      60,
			FlyoutDuration: Duration(5 * time.Second),
			MaxFlyouts:     8,
			HistorySize:    120,
			AccentColor:    "#5fd7ff",
		},
		Bus: BusConfig{
			InboxSize: 1024,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Keys: map[string]string{
			"q":      "quit",
			"ctrl+o": "overlay",
			"F1":     "help",
		},
	}
}

var validLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks every setting and returns all failures joined.
func (c Config) Validate() error {
	var errs []error
	invalid := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if c.Engine.TargetFPS < 0 {
		invalid("engine.target_fps", "must not be negative", c.Engine.TargetFPS)
	}
	if c.Engine.FlyoutDuration <= 0 {
		invalid("engine.flyout_duration", "must be positive", c.Engine.FlyoutDuration)
	}
	if c.Engine.MaxFlyouts < 1 {
		invalid("engine.max_flyouts", "must be at least 1", c.Engine.MaxFlyouts)
	}
	if c.Engine.HistorySize < 1 {
		invalid("engine.history_size", "must be at least 1", c.Engine.HistorySize)
	}
	if _, err := platform.ParseColor(c.Engine.AccentColor); err != nil {
		invalid("engine.accent_color", "must be #rrggbb or default", c.Engine.AccentColor)
	}
	if c.Bus.InboxSize < 1 {
		invalid("bus.inbox_size", "must be at least 1", c.Bus.InboxSize)
	}
	if !validLevel(c.Log.Level) {
		invalid("log.level", "must be one of "+strings.Join(validLevels, ", "), c.Log.Level)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		invalid("metrics.addr", "required when metrics are enabled", c.Metrics.Addr)
	}
	for spec, command := range c.Keys {
		if _, err := input.KeymapFromMap(map[string]string{spec: command}); err != nil {
			invalid("keys."+spec, err.Error(), command)
		}
	}

	return errors.Join(errs...)
}

func validLevel(level string) bool {
	level = strings.ToLower(level)
	for _, l := range validLevels {
		if level == l {
			return true
		}
	}
	return false
}

// Duration is a time.Duration written as a Go duration string ("5s",
// "250ms") in config files and the environment.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String formats d like time.Duration.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}
