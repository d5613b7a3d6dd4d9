// Package events defines the engine-wide event payloads published on the
// hermes event bus.
//
// Each event is a plain struct; its type is its identity on the bus, so
// there are no topic strings to keep in sync:
//
//	event.Subscribe(bus, id, func(e *events.Key) {
//	    if e.Code == events.KeyEscape {
//	        event.Publish(bus, events.Quit{Reason: "escape"})
//	    }
//	})
//
// Events are grouped by producer:
//
//   - Frame events: the engine publishes the update and draw phases once per frame
//   - Input events: the platform pump publishes Raw then a typed event per native event
//   - Log events: the logging core republishes log entries for on-screen display
//   - Lifecycle events: quit requests
package events
