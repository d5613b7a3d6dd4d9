package event

import "go.uber.org/zap"

// Bus is the typed in-process event bus.
//
// A Bus is owned by a single goroutine. Subscribe, Publish, Capture and the
// ID operations must all be called from that goroutine; other goroutines
// hand events over through Inbox.
type Bus struct {
	// Subscriber registry
	nextID   ID
	recycled []ID
	live     map[ID]struct{} // only maintained with debug checks

	// Dispatch table
	slots map[Tag]*slotList

	// Capture controller
	captures map[Tag]ID

	inbox  *Inbox
	config busConfig
	logger *zap.Logger
	stats  counters
}

// New creates a new event bus with the given options.
func New(opts ...Option) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	b := &Bus{
		slots:    make(map[Tag]*slotList),
		captures: make(map[Tag]ID),
		inbox:    newInbox(config.inboxSize),
		config:   config,
		logger:   config.logger.Named("event"),
	}
	if config.debugChecks {
		b.live = make(map[ID]struct{})
	}
	return b
}

// DebugChecks reports whether ID precondition checks are enabled.
func (b *Bus) DebugChecks() bool {
	return b.config.debugChecks
}

// Inbox returns the goroutine-safe entry point of the bus.
func (b *Bus) Inbox() *Inbox {
	return b.inbox
}

// Drain runs the inbox entries queued at the time of the call on the
// calling goroutine, which must be the bus owner. Returns the number run.
func (b *Bus) Drain() int {
	return b.inbox.drain(b)
}
