package event

import "go.uber.org/zap"

// ID identifies one subscriber across every event type it subscribes to.
// IDs are recycled after release, so they are not monotonic.
type ID uint32

// AcquireID returns a subscriber ID, reusing the most recently released one
// when available.
func (b *Bus) AcquireID() ID {
	var id ID
	if n := len(b.recycled); n > 0 {
		id = b.recycled[n-1]
		b.recycled = b.recycled[:n-1]
		b.stats.recycledIDs.Add(-1)
	} else {
		id = b.nextID
		b.nextID++
	}

	if b.live != nil {
		b.live[id] = struct{}{}
	}
	b.stats.liveIDs.Add(1)
	return id
}

// ReleaseID clears every slot and capture held by id and returns id to the
// recycle pool. The caller must release each acquired ID exactly once.
// Without debug checks, releasing an ID that was never issued is ignored.
func (b *Bus) ReleaseID(id ID) {
	if b.live != nil {
		if _, ok := b.live[id]; !ok {
			panic(&IDError{Op: "release", ID: id, Err: ErrUnknownID})
		}
		delete(b.live, id)
	} else if id >= b.nextID {
		return
	}

	for _, list := range b.slots {
		list.clear(id)
	}

	for tag, holder := range b.captures {
		if holder == id {
			delete(b.captures, tag)
			b.stats.captures.Add(-1)
			b.logger.Debug("capture dropped on release",
				zap.Uint32("id", uint32(id)),
				zap.String("event", b.slotName(tag)))
		}
	}

	b.recycled = append(b.recycled, id)
	b.stats.recycledIDs.Add(1)
	b.stats.liveIDs.Add(-1)
}

// IsLive reports whether id is currently acquired.
// Without debug checks it scans the recycle pool.
func (b *Bus) IsLive(id ID) bool {
	if b.live != nil {
		_, ok := b.live[id]
		return ok
	}
	if id >= b.nextID {
		return false
	}
	for _, r := range b.recycled {
		if r == id {
			return false
		}
	}
	return true
}

// checkLive enforces the ID precondition when debug checks are enabled.
func (b *Bus) checkLive(op string, id ID) {
	if b.live == nil {
		return
	}
	if _, ok := b.live[id]; !ok {
		panic(&IDError{Op: op, ID: id, Err: ErrUnknownID})
	}
}
