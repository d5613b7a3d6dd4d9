package ui

import (
	"go.uber.org/zap"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
)

// InputWanter reports which input a widget currently wants for itself.
type InputWanter interface {
	WantsKeyboard() bool
	WantsMouse() bool
}

// Layer captures keyboard and mouse events on behalf of a widget.
type Layer struct {
	bus    *event.Bus
	id     event.ID
	wanter InputWanter
	logger *zap.Logger
	closed bool

	keyboard bool
	mouse    bool
}

// NewLayer acquires a subscriber ID for wanter and starts following raw
// input. Widgets subscribe their own handlers under Layer.ID so captured
// events reach them.
func NewLayer(bus *event.Bus, wanter InputWanter, logger *zap.Logger) *Layer {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Layer{
		bus:    bus,
		id:     bus.AcquireID(),
		wanter: wanter,
		logger: logger.Named("ui"),
	}
	event.Subscribe(bus, l.id, func(*events.Raw) { l.Sync() })
	return l
}

// ID returns the layer's subscriber ID.
func (l *Layer) ID() event.ID { return l.id }

// Keyboard reports whether the layer holds the keyboard capture.
func (l *Layer) Keyboard() bool { return l.keyboard }

// Mouse reports whether the layer holds the mouse captures.
func (l *Layer) Mouse() bool { return l.mouse }

// Sync updates the captures to match what the widget wants.
func (l *Layer) Sync() {
	if l.closed {
		return
	}

	switch want := l.wanter.WantsKeyboard(); {
	case want && !l.keyboard:
		event.Capture[events.Key](l.bus, l.id)
		l.keyboard = true
		l.logger.Debug("keyboard captured", zap.Uint32("id", uint32(l.id)))
	case !want && l.keyboard:
		event.Uncapture[events.Key](l.bus, l.id)
		l.keyboard = false
		l.logger.Debug("keyboard released", zap.Uint32("id", uint32(l.id)))
	}

	switch want := l.wanter.WantsMouse(); {
	case want && !l.mouse:
		event.Capture[events.MouseButton](l.bus, l.id)
		event.Capture[events.MouseMotion](l.bus, l.id)
		event.Capture[events.MouseWheel](l.bus, l.id)
		l.mouse = true
	case !want && l.mouse:
		event.Uncapture[events.MouseButton](l.bus, l.id)
		event.Uncapture[events.MouseMotion](l.bus, l.id)
		event.Uncapture[events.MouseWheel](l.bus, l.id)
		l.mouse = false
	}
}

// Close releases the layer's ID, which drops its subscriptions and any
// captures it holds.
func (l *Layer) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.keyboard, l.mouse = false, false
	l.bus.ReleaseID(l.id)
}
