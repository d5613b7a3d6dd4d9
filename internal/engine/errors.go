package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrAlreadyRunning indicates Run was called while the loop is running.
	ErrAlreadyRunning = errors.New("engine already running")

	// ErrHandlerPanic wraps a panic raised by an event handler during a frame.
	ErrHandlerPanic = errors.New("event handler panicked")

	// ErrClosed indicates the engine has been closed.
	ErrClosed = errors.New("engine closed")
)
