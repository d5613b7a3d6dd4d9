package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
	"github.com/dshills/hermes/internal/platform"
)

// Application is the game or tool run by the engine.
type Application interface {
	// Update advances state by dt seconds.
	Update(dt float64)

	// Draw renders the scene to the surface.
	Draw(surface platform.Backend)
}

// Engine owns the frame loop.
type Engine struct {
	bus     *event.Bus
	backend platform.Backend
	id      event.ID
	closed  bool

	clock   clock.Clock
	logger  *zap.Logger
	frames  *FrameCounter
	metrics *Metrics

	targetFPS      int
	historySize    int
	overlay        bool
	flyoutDuration time.Duration
	maxFlyouts     int
	flyouts        []flyout // newest first

	running atomic.Bool
	stop    atomic.Bool
}

// New creates an engine on bus drawing to backend. The engine subscribes
// to quit, log and overlay events immediately.
func New(bus *event.Bus, backend platform.Backend, opts ...Option) *Engine {
	e := &Engine{
		bus:            bus,
		backend:        backend,
		clock:          clock.New(),
		logger:         zap.NewNop(),
		targetFPS:      DefaultTargetFPS,
		historySize:    DefaultHistorySize,
		flyoutDuration: DefaultFlyoutDuration,
		maxFlyouts:     DefaultMaxFlyouts,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("engine")
	e.frames = NewFrameCounter(e.historySize, DefaultFPSAlpha)
	e.metrics = NewMetrics(e.clock.Now())

	e.id = bus.AcquireID()
	event.Subscribe(bus, e.id, func(q *events.Quit) {
		e.logger.Info("quit requested", zap.String("reason", q.Reason))
		e.Shutdown()
	})
	event.Subscribe(bus, e.id, func(p *events.PreUpdate) {
		e.ageFlyouts(p.DT)
	})
	event.Subscribe(bus, e.id, func(m *events.LogMessage) {
		e.pushFlyout(*m)
	})
	event.Subscribe(bus, e.id, func(*events.DrawOverlay) {
		if e.overlay {
			e.drawOverlay()
		}
	})
	return e
}

// Run runs the frame loop until Shutdown, a quit event, ctx cancellation or
// a handler panic. app may be nil. Run returns nil after Shutdown, ctx's
// error after cancellation and an error wrapping ErrHandlerPanic after a
// panic.
func (e *Engine) Run(ctx context.Context, app Application) error {
	if e.closed {
		return ErrClosed
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)
	defer e.stop.Store(false)

	if app != nil {
		event.Subscribe(e.bus, e.id, func(u *events.Update) { app.Update(u.DT) })
		event.Subscribe(e.bus, e.id, func(*events.Draw) { app.Draw(e.backend) })
		defer func() {
			event.Unsubscribe[events.Update](e.bus, e.id)
			event.Unsubscribe[events.Draw](e.bus, e.id)
		}()
	}

	e.logger.Info("frame loop started", zap.Int("target_fps", e.targetFPS))
	defer func() {
		e.logger.Info("frame loop stopped", zap.Uint64("frames", e.frames.Frames()))
	}()

	for !e.stop.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := e.clock.Now()
		if err := e.Frame(); err != nil {
			return err
		}
		e.limit(start)
	}
	return nil
}

// Frame runs one frame without frame limiting. A panicking handler aborts
// the frame and is returned as an error wrapping ErrHandlerPanic.
func (e *Engine) Frame() (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.metrics.RecordPanic()
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
			e.logger.Error("frame aborted", zap.Error(err), zap.Stack("stack"))
		}
	}()

	start := e.clock.Now()
	e.frames.Begin(start)
	e.bus.Drain()
	e.backend.Pump(e.bus)

	dt := e.frames.DT()
	event.Publish(e.bus, events.PreUpdate{DT: dt})
	event.Publish(e.bus, events.Update{DT: dt})
	event.Publish(e.bus, events.PostUpdate{DT: dt})
	updated := e.clock.Now()

	e.backend.Clear()
	event.Publish(e.bus, events.PreDraw{})
	event.Publish(e.bus, events.Draw{})
	event.Publish(e.bus, events.PreDrawOverlay{})
	event.Publish(e.bus, events.DrawOverlay{})
	event.Publish(e.bus, events.PostDrawOverlay{})
	event.Publish(e.bus, events.PostDraw{})
	e.backend.Present()
	drawn := e.clock.Now()

	e.frames.Update(drawn)
	e.metrics.RecordFrame(updated.Sub(start), drawn.Sub(updated))
	e.metrics.RecordFPS(e.frames.FPS())
	return nil
}

// limit sleeps out the rest of the frame budget.
func (e *Engine) limit(start time.Time) {
	if e.targetFPS <= 0 {
		return
	}
	budget := time.Second / time.Duration(e.targetFPS)
	if left := budget - e.clock.Since(start); left > 0 {
		e.clock.Sleep(left)
	}
}

// Shutdown stops the loop after the current frame. Safe from any goroutine.
func (e *Engine) Shutdown() {
	e.stop.Store(true)
}

// Running reports whether the frame loop is running.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Close releases the engine's subscriber ID, dropping its subscriptions
// and captures. The engine cannot run afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.bus.ReleaseID(e.id)
}

// Bus returns the event bus.
func (e *Engine) Bus() *event.Bus { return e.bus }

// Backend returns the drawing surface.
func (e *Engine) Backend() platform.Backend { return e.backend }

// Frames returns the frame counter.
func (e *Engine) Frames() *FrameCounter { return e.frames }

// Metrics returns the frame metrics.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Snapshot returns the frame metrics at the current time.
func (e *Engine) Snapshot() MetricsSnapshot {
	return e.metrics.Snapshot(e.clock.Now())
}

// SetTargetFPS changes the frame rate cap. Zero or less runs unthrottled.
// Call it from the bus goroutine.
func (e *Engine) SetTargetFPS(fps int) {
	e.targetFPS = max(fps, 0)
}

// TargetFPS returns the frame rate cap, zero when unthrottled.
func (e *Engine) TargetFPS() int { return e.targetFPS }

// Overlay reports whether the debug overlay is shown.
func (e *Engine) Overlay() bool { return e.overlay }

// SetOverlay shows or hides the debug overlay.
func (e *Engine) SetOverlay(enabled bool) { e.overlay = enabled }
