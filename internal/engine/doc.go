// Package engine runs the frame loop that drives the event bus.
//
// Each frame the engine drains the bus inbox, pumps platform input and then
// publishes the frame phases in a fixed order:
//
//	PreUpdate, Update, PostUpdate         (with the previous frame's dt)
//	PreDraw, Draw,
//	PreDrawOverlay, DrawOverlay, PostDrawOverlay,
//	PostDraw
//
// before presenting the surface and sleeping to the target frame rate.
// Everything else in hermes, from timers to the console, hangs off those
// events.
//
// The engine itself subscribes to events.Quit, to events.LogMessage for the
// on-screen log flyouts, and to events.DrawOverlay for the debug overlay.
package engine
