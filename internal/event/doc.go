// Package event provides the typed in-process event bus at the centre of
// hermes.
//
// Every subsystem talks through the bus: the engine publishes frame phases,
// the platform pump publishes input, timers tick on PreUpdate and the UI
// steals keyboard input through captures. Nothing holds a direct reference
// to anything else.
//
// # Event types
//
// An event is any Go type, usually a small struct. Its type is its identity:
// the bus derives a 32-bit Tag from the type's fully-qualified name with
// MurmurHash3, so tags are stable across runs and builds. A type can pick
// its own name by implementing Named.
//
// # Subscribers
//
// A subscriber is an ID, not an object. One ID may hold one handler per
// event type:
//
//	id := bus.AcquireID()
//	event.Subscribe(bus, id, func(e *events.Key) { ... })
//	event.Subscribe(bus, id, func(e *events.Update) { ... })
//	...
//	bus.ReleaseID(id) // drops both handlers and any captures
//
// Handlers live in a dense slot list per event type indexed by ID, so
// release touches one slot per type and dispatch walks a slice.
// Released IDs are reused, most recent first.
//
// # Publishing
//
//	event.Publish(bus, events.Quit{Reason: "user"})
//
// Publish runs every handler synchronously in ascending ID order and
// returns when the last one is done. Handlers receive a pointer to a copy
// of the event that is only valid during the call.
//
// Handlers may publish, subscribe, unsubscribe, capture and release IDs
// while a dispatch is running. The walk length is fixed when dispatch
// starts, so subscribers added mid-dispatch are not visited by it.
//
// # Capture
//
// Capture routes all events of one type to a single subscriber:
//
//	event.Capture[events.Key](bus, consoleID)
//	defer event.Uncapture[events.Key](bus, consoleID)
//
// The most recent capture wins. Uncapture only releases a capture held by
// the given ID; ForceUncapture releases it unconditionally. While a type is
// captured by an ID with no handler for it, its events are dropped.
//
// # Threading
//
// A Bus belongs to one goroutine. Other goroutines use the Inbox, whose
// entries run on the owner at the next Drain:
//
//	go func() {
//	    _ = event.Post(bus.Inbox(), config.Reloaded{...})
//	}()
//	...
//	bus.Drain() // once per frame
//
// Tag lookups and Stats are safe from any goroutine.
//
// # Debug checks
//
// WithDebugChecks(true) tracks live IDs and panics with an *IDError when an
// unknown or released ID is used. Without it such misuse is not detected.
package event
