package engine

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultTargetFPS      = 60
	DefaultFlyoutDuration = 5 * time.Second
	DefaultMaxFlyouts     = 8
	DefaultHistorySize    = 120
	DefaultFPSAlpha       = 0.1
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithClock sets the clock used for frame timing.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTargetFPS caps the frame rate. Zero or less runs unthrottled.
func WithTargetFPS(fps int) Option {
	return func(e *Engine) {
		e.targetFPS = max(fps, 0)
	}
}

// WithOverlay shows or hides the debug overlay at startup.
func WithOverlay(enabled bool) Option {
	return func(e *Engine) {
		e.overlay = enabled
	}
}

// WithFlyoutDuration sets how long log flyouts stay on screen.
func WithFlyoutDuration(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.flyoutDuration = d
		}
	}
}

// WithMaxFlyouts caps the number of log flyouts on screen.
func WithMaxFlyouts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxFlyouts = n
		}
	}
}

// WithHistorySize sets how many frames of fps history the overlay plots.
func WithHistorySize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historySize = n
		}
	}
}
