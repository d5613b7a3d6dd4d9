package event

import "sync/atomic"

// Stats contains event bus statistics.
type Stats struct {
	// Published is the total number of Publish calls.
	Published uint64

	// Deliveries is the total number of handler invocations.
	Deliveries uint64

	// CapturedDeliveries is the number of invocations routed by a capture.
	CapturedDeliveries uint64

	// Swallowed is the number of publishes absorbed by a capturer that has
	// no handler for the event type.
	Swallowed uint64

	// LiveIDs is the number of acquired, unreleased subscriber IDs.
	LiveIDs int

	// RecycledIDs is the number of released IDs waiting for reuse.
	RecycledIDs int

	// EventTypes is the number of event types with a slot list.
	EventTypes int

	// Captures is the number of event types currently captured.
	Captures int

	// InboxDepth is the number of entries waiting in the inbox.
	InboxDepth int

	// InboxDropped is the number of inbox posts rejected because it was full.
	InboxDropped uint64
}

// counters holds the atomically maintained values behind Stats, so that
// metrics can be scraped from another goroutine.
type counters struct {
	published  atomic.Uint64
	deliveries atomic.Uint64
	captured   atomic.Uint64
	swallowed  atomic.Uint64

	liveIDs     atomic.Int64
	recycledIDs atomic.Int64
	eventTypes  atomic.Int64
	captures    atomic.Int64
}

// Stats returns current bus statistics. Safe to call from any goroutine.
func (b *Bus) Stats() Stats {
	return Stats{
		Published:          b.stats.published.Load(),
		Deliveries:         b.stats.deliveries.Load(),
		CapturedDeliveries: b.stats.captured.Load(),
		Swallowed:          b.stats.swallowed.Load(),
		LiveIDs:            int(b.stats.liveIDs.Load()),
		RecycledIDs:        int(b.stats.recycledIDs.Load()),
		EventTypes:         int(b.stats.eventTypes.Load()),
		Captures:           int(b.stats.captures.Load()),
		InboxDepth:         b.inbox.Len(),
		InboxDropped:       b.inbox.Dropped(),
	}
}

// Observer is notified after each publish completes.
// It runs on the bus goroutine and must not block.
type Observer interface {
	ObservePublish(tag Tag, name string, deliveries int, captured bool)
}

// ObserverFunc is a function adapter for Observer.
type ObserverFunc func(tag Tag, name string, deliveries int, captured bool)

// ObservePublish implements the Observer interface.
func (f ObserverFunc) ObservePublish(tag Tag, name string, deliveries int, captured bool) {
	f(tag, name, deliveries, captured)
}
