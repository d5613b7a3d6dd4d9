package timer

import (
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
)

// HandleLen is the length of timer handles.
const HandleLen = 11

// ErrClosed is returned when scheduling on a closed manager.
var ErrClosed = errors.New("timer manager is closed")

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRand sets the source used to pick among Intervals. rn must return a
// value in [0, n).
func WithRand(rn func(n int) int) Option {
	return func(m *Manager) {
		if rn != nil {
			m.rand = rn
		}
	}
}

type entry struct {
	handle string
	timer  timer
	paused bool
	done   bool
}

// Manager runs timers on the bus's PreUpdate phase.
// It is confined to the bus goroutine like the bus itself.
type Manager struct {
	bus    *event.Bus
	id     event.ID
	closed bool

	byHandle map[string]*entry
	order    []*entry

	logger *zap.Logger
	rand   func(n int) int
}

// New creates a Manager and subscribes it to events.PreUpdate.
func New(bus *event.Bus, opts ...Option) *Manager {
	m := &Manager{
		bus:      bus,
		byHandle: make(map[string]*entry),
		logger:   zap.NewNop(),
		rand:     rand.IntN,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("timer")

	m.id = bus.AcquireID()
	event.Subscribe(bus, m.id, func(e *events.PreUpdate) {
		m.tick(e.DT)
	})
	return m
}

// Every calls fn on the next tick and then once per interval.
func (m *Manager) Every(interval time.Duration, fn func(), opts ...Repeat) string {
	return m.add(&everyTimer{periodic: m.periodic(interval, opts), fn: fn})
}

// Until calls fn on the next tick and then once per interval for as long as
// fn returns true.
func (m *Manager) Until(interval time.Duration, fn func() bool, opts ...Repeat) string {
	return m.add(&untilTimer{periodic: m.periodic(interval, opts), fn: fn})
}

// After calls fn once, delay from now.
func (m *Manager) After(delay time.Duration, fn func()) string {
	return m.add(&afterTimer{left: delay.Seconds(), fn: fn})
}

// During calls fn every tick for duration, then calls after once.
// after may be nil.
func (m *Manager) During(duration time.Duration, fn func(), after func()) string {
	return m.add(&duringTimer{left: duration.Seconds(), fn: fn, after: after})
}

func (m *Manager) periodic(interval time.Duration, opts []Repeat) periodic {
	return periodic{repeat: newRepeat(interval, opts), pick: m.rand}
}

// add schedules t. A closed manager returns an empty handle.
func (m *Manager) add(t timer) string {
	if m.closed {
		m.logger.Warn("schedule on closed manager", zap.Error(ErrClosed))
		return ""
	}
	e := &entry{handle: m.newHandle(), timer: t}
	m.byHandle[e.handle] = e
	m.order = append(m.order, e)
	return e.handle
}

// newHandle returns an unused 11-character base58 handle.
func (m *Manager) newHandle() string {
	for {
		u := uuid.New()
		h := base58.Encode(u[:])[:HandleLen]
		if _, taken := m.byHandle[h]; !taken {
			return h
		}
	}
}

// Cancel removes the timer. It reports whether the handle was scheduled.
func (m *Manager) Cancel(handle string) bool {
	e, ok := m.byHandle[handle]
	if !ok {
		return false
	}
	m.finish(e)
	return true
}

// Pause stops the timer from advancing until Resume.
func (m *Manager) Pause(handle string) bool {
	e, ok := m.byHandle[handle]
	if ok {
		e.paused = true
	}
	return ok
}

// Resume restarts a paused timer.
func (m *Manager) Resume(handle string) bool {
	e, ok := m.byHandle[handle]
	if ok {
		e.paused = false
	}
	return ok
}

// Active reports whether handle is scheduled.
func (m *Manager) Active(handle string) bool {
	_, ok := m.byHandle[handle]
	return ok
}

// Len returns the number of scheduled timers.
func (m *Manager) Len() int {
	return len(m.byHandle)
}

// Clear cancels every timer.
func (m *Manager) Clear() {
	for _, e := range m.order {
		e.done = true
	}
	clear(m.byHandle)
	m.order = nil
}

// Close cancels every timer and releases the manager's bus ID.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.Clear()
	m.closed = true
	m.bus.ReleaseID(m.id)
}

func (m *Manager) finish(e *entry) {
	e.done = true
	delete(m.byHandle, e.handle)
}

func (m *Manager) tick(dt float64) {
	// Timers added by callbacks land past the end of this snapshot and
	// wait for the next tick.
	for _, e := range m.order {
		if e.done || e.paused {
			continue
		}
		if e.timer.update(dt) && !e.timer.fire() {
			m.finish(e)
		}
	}

	m.order = slices.DeleteFunc(m.order, func(e *entry) bool {
		return e.done
	})
}
