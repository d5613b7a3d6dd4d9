package event

import "go.uber.org/zap"

// Option configures a Bus.
type Option func(*busConfig)

// busConfig contains configuration for the event bus.
type busConfig struct {
	// logger receives capture and release diagnostics at debug level.
	logger *zap.Logger

	// debugChecks enables precondition checks on subscriber IDs.
	debugChecks bool

	// inboxSize is the capacity of the cross-goroutine inbox.
	inboxSize int

	// observer is notified once per publish.
	observer Observer
}

// defaultBusConfig returns the default configuration.
func defaultBusConfig() busConfig {
	return busConfig{
		logger:    zap.NewNop(),
		inboxSize: 1024,
	}
}

// WithLogger sets the logger used for bus diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *busConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDebugChecks enables or disables subscriber ID precondition checks.
// With checks enabled, using an ID that was never acquired or was already
// released panics with an *IDError instead of being silently tolerated.
func WithDebugChecks(enabled bool) Option {
	return func(c *busConfig) {
		c.debugChecks = enabled
	}
}

// WithInboxSize sets the capacity of the bus inbox.
func WithInboxSize(size int) Option {
	return func(c *busConfig) {
		if size > 0 {
			c.inboxSize = size
		}
	}
}

// WithObserver sets an observer notified after every publish.
func WithObserver(o Observer) Option {
	return func(c *busConfig) {
		c.observer = o
	}
}
