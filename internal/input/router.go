package input

import (
	"go.uber.org/zap"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
)

// Action is published when a bound key is pressed.
type Action struct {
	Command string
	Key     events.Key
}

// Router publishes Action for keys found in its keymap.
type Router struct {
	bus    *event.Bus
	id     event.ID
	keymap *Keymap
	logger *zap.Logger
	closed bool
}

// NewRouter subscribes a router for km on bus. A nil km binds nothing.
func NewRouter(bus *event.Bus, km *Keymap, logger *zap.Logger) *Router {
	if km == nil {
		km = NewKeymap()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		bus:    bus,
		id:     bus.AcquireID(),
		keymap: km,
		logger: logger.Named("input"),
	}
	event.Subscribe(bus, r.id, r.handleKey)
	return r
}

// Keymap returns the active keymap.
func (r *Router) Keymap() *Keymap { return r.keymap }

// SetKeymap replaces the active keymap.
func (r *Router) SetKeymap(km *Keymap) {
	if km == nil {
		km = NewKeymap()
	}
	r.keymap = km
}

// Close releases the router's subscriber ID.
func (r *Router) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.bus.ReleaseID(r.id)
}

func (r *Router) handleKey(k *events.Key) {
	command, ok := r.keymap.Lookup(*k)
	if !ok {
		return
	}
	r.logger.Debug("key bound", zap.Stringer("key", *k), zap.String("command", command))
	event.Publish(r.bus, Action{Command: command, Key: *k})
}
