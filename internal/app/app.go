// Package app wires the hermes components together and runs the demo
// application on the engine.
package app

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dshills/hermes/internal/config"
	"github.com/dshills/hermes/internal/engine"
	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/input"
	"github.com/dshills/hermes/internal/metrics"
	"github.com/dshills/hermes/internal/platform"
	"github.com/dshills/hermes/internal/timer"
	"github.com/dshills/hermes/internal/ui"
)

// Application owns every hermes component. The goroutine calling Run owns
// the bus; Quit is the only method safe from other goroutines.
type Application struct {
	// Core infrastructure
	config config.Config
	logger *zap.Logger
	level  zap.AtomicLevel
	bus    *event.Bus
	id     event.ID

	// Frame loop components
	backend platform.Backend
	engine  *engine.Engine
	timers  *timer.Manager
	console *ui.Console
	router  *input.Router
	demo    *demo

	// Outer services
	observer *metrics.Observer
	registry *metrics.Registry
	server   *metrics.Server
	watcher  *config.Watcher

	running atomic.Bool
	closed  bool

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML or YAML config file. Empty uses defaults and
	// the environment only.
	ConfigPath string

	// LogLevel overrides the configured log level.
	LogLevel string

	// Debug enables debug logging and bus ID checks.
	Debug bool

	// MetricsPort, when positive, serves metrics on that port regardless
	// of the config file.
	MetricsPort int

	// Backend replaces the terminal, e.g. with platform.NewNull in tests.
	Backend platform.Backend

	// Logger replaces the logger built from the config.
	Logger *zap.Logger
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run initializes the backend and runs the frame loop until quit, ctx
// cancellation or a handler panic.
func (app *Application) Run(ctx context.Context) error {
	if app.closed {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	app.logger.Info("hermes started",
		zap.String("config", app.opts.ConfigPath),
		zap.Int("target_fps", app.engine.TargetFPS()))

	err := app.engine.Run(ctx, app.demo)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Quit asks the frame loop to stop. Safe from any goroutine.
func (app *Application) Quit() {
	app.engine.Shutdown()
}

// Shutdown releases every component in reverse start order and returns
// the combined errors. Call it after Run returns.
func (app *Application) Shutdown(ctx context.Context) error {
	if app.closed {
		return nil
	}
	app.closed = true

	var err error
	if app.watcher != nil {
		err = multierr.Append(err, app.watcher.Close())
	}
	if app.server != nil {
		err = multierr.Append(err, app.server.Stop(ctx))
	}

	app.router.Close()
	app.console.Destroy()
	app.timers.Close()
	app.bus.ReleaseID(app.id)
	app.engine.Close()

	app.logger.Info("hermes stopped", zap.Uint64("frames", app.engine.Frames().Frames()))
	// Sync fails on terminals and pipes; only file outputs report it.
	if syncErr := app.logger.Sync(); syncErr != nil && app.config.Log.File != "" {
		err = multierr.Append(err, syncErr)
	}
	return err
}

// IsRunning returns true if the frame loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration in effect.
func (app *Application) Config() config.Config { return app.config }

// Bus returns the event bus.
func (app *Application) Bus() *event.Bus { return app.bus }

// Engine returns the frame loop.
func (app *Application) Engine() *engine.Engine { return app.engine }

// Timers returns the timer manager.
func (app *Application) Timers() *timer.Manager { return app.timers }

// Console returns the command console.
func (app *Application) Console() *ui.Console { return app.console }

// Router returns the key binding router.
func (app *Application) Router() *input.Router { return app.router }

// Logger returns the application logger.
func (app *Application) Logger() *zap.Logger { return app.logger }

// Registry returns the metrics registry.
func (app *Application) Registry() *metrics.Registry { return app.registry }

// MetricsAddr returns the metrics server address, or "" when disabled.
func (app *Application) MetricsAddr() string {
	if app.server == nil {
		return ""
	}
	return app.server.Addr()
}
