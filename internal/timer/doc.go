// Package timer schedules callbacks against the engine's frame clock.
//
// A Manager subscribes to events.PreUpdate and advances every timer by the
// frame delta, so timers pause with the game loop and never fire from
// another goroutine:
//
//	timers := timer.New(bus)
//	defer timers.Close()
//
//	timers.Every(time.Second, heartbeat)
//	timers.Every(500*time.Millisecond, blink, timer.Count(6))
//	timers.After(3*time.Second, hideToast)
//	timers.During(time.Second, shake, resetCamera)
//	timers.Until(100*time.Millisecond, fadeStep)
//
// Every timer gets an opaque base58 handle for Cancel, Pause and Resume.
// Timers run in creation order; a callback may create or cancel timers,
// and timers it creates first run on the next frame.
package timer
