package event

import "go.uber.org/zap"

// Capture makes id the exclusive recipient of events of type T until it is
// uncaptured or id is released. A later capture by another ID replaces it.
func Capture[T any](b *Bus, id ID) {
	b.checkLive("capture", id)
	tag := TagOf[T]()

	prev, held := b.captures[tag]
	switch {
	case !held:
		b.stats.captures.Add(1)
	case prev != id:
		b.logger.Debug("capture preempted",
			zap.String("event", NameOf[T]()),
			zap.Uint32("previous", uint32(prev)),
			zap.Uint32("id", uint32(id)))
	}
	b.captures[tag] = id
}

// Uncapture releases the capture on T if id holds it.
func Uncapture[T any](b *Bus, id ID) {
	tag := TagOf[T]()
	if holder, ok := b.captures[tag]; ok && holder == id {
		b.uncapture(tag)
	}
}

// ForceUncapture releases the capture on T whoever holds it.
func ForceUncapture[T any](b *Bus) {
	tag := TagOf[T]()
	if _, ok := b.captures[tag]; ok {
		b.uncapture(tag)
	}
}

// CapturedBy returns the ID capturing T, if any.
func CapturedBy[T any](b *Bus) (ID, bool) {
	id, ok := b.captures[TagOf[T]()]
	return id, ok
}

func (b *Bus) uncapture(tag Tag) {
	delete(b.captures, tag)
	b.stats.captures.Add(-1)
}
