package events

// Quit asks the engine to stop after the current frame.
type Quit struct {
	// Reason is a short description for the log.
	Reason string
}
