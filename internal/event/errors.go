package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the event bus.
//
// The bus API is fire-and-forget: none of these are returned from Publish,
// Subscribe or Capture. They surface as panic values when debug checks are
// enabled, and as return values from the goroutine-safe Inbox.
var (
	// ErrUnknownID is raised when an ID that is not live is used.
	ErrUnknownID = errors.New("subscriber id is not live")

	// ErrTagCollision is raised when two event type names hash to the same tag.
	ErrTagCollision = errors.New("event tag collision")

	// ErrInboxFull is returned when the inbox cannot accept more entries.
	ErrInboxFull = errors.New("event inbox is full")

	// ErrPayloadReleased is raised when a payload is released twice.
	ErrPayloadReleased = errors.New("payload already released")
)

// IDError reports misuse of a subscriber ID.
type IDError struct {
	// Op is the bus operation that was attempted.
	Op string

	// ID is the offending subscriber ID.
	ID ID

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *IDError) Error() string {
	return fmt.Sprintf("%s subscriber %d: %v", e.Op, e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *IDError) Unwrap() error {
	return e.Err
}

// TagCollisionError describes two event type names sharing one tag.
type TagCollisionError struct {
	// Tag is the shared tag value.
	Tag Tag

	// Existing is the name registered first.
	Existing string

	// Name is the name that collided with it.
	Name string
}

// Error implements the error interface.
func (e *TagCollisionError) Error() string {
	return fmt.Sprintf("event tag %s is shared by %q and %q", e.Tag, e.Existing, e.Name)
}

// Is allows errors.Is to match TagCollisionError with ErrTagCollision.
func (e *TagCollisionError) Is(target error) bool {
	return target == ErrTagCollision
}
