package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/hermes/internal/config"
	"github.com/dshills/hermes/internal/engine"
	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/input"
	"github.com/dshills/hermes/internal/logging"
	"github.com/dshills/hermes/internal/metrics"
	"github.com/dshills/hermes/internal/platform"
	"github.com/dshills/hermes/internal/timer"
	"github.com/dshills/hermes/internal/ui"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initEventBus,
		b.initBackend,
		b.initEngine,
		b.initWidgets,
		b.initMetrics,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig loads the config file and applies command line overrides.
func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}

	if b.opts.LogLevel != "" {
		cfg.Log.Level = b.opts.LogLevel
	}
	if b.opts.Debug {
		cfg.Log.Level = "debug"
		cfg.Bus.DebugChecks = true
	}
	if b.opts.MetricsPort > 0 {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = fmt.Sprintf(":%d", b.opts.MetricsPort)
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	b.app.config = cfg
	return nil
}

// initLogging builds the base logger. The bus core is attached once the
// bus exists.
func (b *bootstrapper) initLogging() error {
	cfg := b.app.config.Log

	if b.opts.Logger != nil {
		level, err := logging.ParseLevel(cfg.Level)
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		b.app.logger = b.opts.Logger
		b.app.level = zap.NewAtomicLevelAt(level)
		b.initOrder = append(b.initOrder, "logging")
		return nil
	}

	logger, level, err := logging.New(cfg)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	b.app.logger = logger
	b.app.level = level
	b.initOrder = append(b.initOrder, "logging")
	return nil
}

// initEventBus creates the bus and tees the logger into it so log lines
// show up as overlay flyouts.
func (b *bootstrapper) initEventBus() error {
	cfg := b.app.config.Bus

	b.app.observer = metrics.NewObserver()
	b.app.bus = event.New(
		event.WithLogger(b.app.logger),
		event.WithDebugChecks(cfg.DebugChecks),
		event.WithInboxSize(cfg.InboxSize),
		event.WithObserver(b.app.observer),
	)
	b.app.id = b.app.bus.AcquireID()

	// Flyouts show info and above even when the file log is more verbose.
	flyoutLevel := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.InfoLevel && b.app.level.Enabled(l)
	})
	b.app.logger = logging.Tee(b.app.logger, logging.NewBusCore(b.app.bus.Inbox(), flyoutLevel))

	b.initOrder = append(b.initOrder, "eventBus")
	return nil
}

// initBackend opens the terminal unless a backend was supplied.
func (b *bootstrapper) initBackend() error {
	if b.opts.Backend != nil {
		b.app.backend = b.opts.Backend
		return nil
	}
	term, err := platform.NewTerminal()
	if err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	b.app.backend = term
	return nil
}

func (b *bootstrapper) initEngine() error {
	cfg := b.app.config.Engine

	b.app.engine = engine.New(b.app.bus, b.app.backend,
		engine.WithLogger(b.app.logger),
		engine.WithTargetFPS(cfg.TargetFPS),
		engine.WithOverlay(cfg.Overlay),
		engine.WithFlyoutDuration(cfg.FlyoutDuration.Std()),
		engine.WithMaxFlyouts(cfg.MaxFlyouts),
		engine.WithHistorySize(cfg.HistorySize),
	)
	b.app.timers = timer.New(b.app.bus, timer.WithLogger(b.app.logger))
	b.initOrder = append(b.initOrder, "engine")
	return nil
}

// initWidgets creates the console, the key router and the demo scene and
// wires the application's own subscriptions.
func (b *bootstrapper) initWidgets() error {
	km, err := input.KeymapFromMap(b.app.config.Keys)
	if err != nil {
		return &InitError{Component: "keymap", Err: err}
	}
	b.app.console = ui.NewConsole(b.app.bus, b.app.backend, ui.WithLogger(b.app.logger))
	b.app.router = input.NewRouter(b.app.bus, km, b.app.logger)
	b.app.demo = newDemo(b.app)
	b.app.subscribe()
	b.initOrder = append(b.initOrder, "widgets")
	return nil
}

// initMetrics starts the Prometheus endpoint when enabled.
func (b *bootstrapper) initMetrics() error {
	b.app.registry = metrics.NewRegistry()
	err := b.app.registry.Register(
		b.app.observer,
		metrics.NewCollector(b.app.bus, b.app.engine),
	)
	if err != nil {
		return &InitError{Component: "metrics", Err: err}
	}

	cfg := b.app.config.Metrics
	if !cfg.Enabled {
		return nil
	}
	server := metrics.NewServer(cfg.Addr, b.app.registry, b.app.logger)
	if err := server.Start(); err != nil {
		return &InitError{Component: "metrics", Err: err}
	}
	b.app.server = server
	b.initOrder = append(b.initOrder, "metrics")
	return nil
}

// initWatcher follows the config file for live reload.
func (b *bootstrapper) initWatcher() error {
	if b.opts.ConfigPath == "" {
		return nil
	}
	w, err := config.NewWatcher(b.opts.ConfigPath, b.app.bus.Inbox(), config.WithWatchLogger(b.app.logger))
	if err != nil {
		return &InitError{Component: "config watcher", Err: err}
	}
	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(ctx, b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(ctx context.Context, component string) {
	switch component {
	case "watcher":
		_ = b.app.watcher.Close()
		b.app.watcher = nil
	case "metrics":
		_ = b.app.server.Stop(ctx)
		b.app.server = nil
	case "widgets":
		b.app.router.Close()
		b.app.console.Destroy()
	case "engine":
		b.app.timers.Close()
		b.app.engine.Close()
	case "eventBus":
		b.app.bus.ReleaseID(b.app.id)
	case "logging":
		_ = b.app.logger.Sync()
	}
}
