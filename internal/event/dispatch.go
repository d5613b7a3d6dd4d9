package event

// receiver is a type-erased handler stored in a dispatch slot. It reports
// whether the handler actually ran.
type receiver func(p *payload) bool

// slotList is the dense per-tag table of receivers, indexed by subscriber ID.
// Slots are cleared, never removed, so indices stay stable during dispatch.
type slotList struct {
	slots []receiver
}

// at returns the receiver at id, or nil when id is out of range.
// It is safe to call on a nil list.
func (l *slotList) at(id ID) receiver {
	if l == nil || int(id) >= len(l.slots) {
		return nil
	}
	return l.slots[id]
}

// set stores r at id, growing the list to fit.
func (l *slotList) set(id ID, r receiver) {
	if int(id) >= len(l.slots) {
		grown := make([]receiver, int(id)+1, max(int(id)+1, 2*len(l.slots)))
		copy(grown, l.slots)
		l.slots = grown
	}
	l.slots[id] = r
}

// clear empties the slot at id if it is in range.
func (l *slotList) clear(id ID) {
	if int(id) < len(l.slots) {
		l.slots[id] = nil
	}
}

// list returns the slot list for tag, creating it when create is set.
func (b *Bus) list(tag Tag, create bool) *slotList {
	l, ok := b.slots[tag]
	if !ok && create {
		l = &slotList{}
		b.slots[tag] = l
		b.stats.eventTypes.Add(1)
	}
	return l
}

// slotName returns the registered type name for tag, for diagnostics.
func (b *Bus) slotName(tag Tag) string {
	return types.nameOf(tag)
}

// Subscribe installs fn as id's handler for events of type T, replacing any
// previous handler. A nil fn clears the slot. Handlers must not modify the
// event, since later handlers see the same value, and must not retain the
// event pointer after they return.
func Subscribe[T any](b *Bus, id ID, fn func(*T)) {
	b.checkLive("subscribe", id)
	info := infoOf[T]()
	if fn == nil {
		b.list(info.tag, false).clearIfPresent(id)
		return
	}
	b.list(info.tag, true).set(id, func(p *payload) bool {
		ev, ok := p.value.(*T)
		if !ok {
			return false
		}
		fn(ev)
		return true
	})
}

// Unsubscribe clears id's handler for events of type T. Clearing a slot that
// was never filled is a no-op.
func Unsubscribe[T any](b *Bus, id ID) {
	b.checkLive("unsubscribe", id)
	b.list(TagOf[T](), false).clearIfPresent(id)
}

// IsSubscribed reports whether id currently has a handler for T.
func IsSubscribed[T any](b *Bus, id ID) bool {
	return b.list(TagOf[T](), false).at(id) != nil
}

// clearIfPresent is clear for a list that may not exist.
func (l *slotList) clearIfPresent(id ID) {
	if l != nil {
		l.clear(id)
	}
}

// Publish delivers ev to the subscribers of T and returns once every handler
// has run. If T is captured, only the capturer sees the event; otherwise all
// subscribers run in ascending ID order.
//
// Handlers may publish, subscribe, capture and release IDs re-entrantly.
// Subscribers added while a dispatch is running are not visited by it.
func Publish[T any](b *Bus, ev T) {
	info := infoOf[T]()
	p := newPayload(info, ev)
	defer p.release()
	b.dispatch(p)
}

func (b *Bus) dispatch(p *payload) {
	tag := p.tag
	b.stats.published.Add(1)
	list := b.list(tag, false)

	delivered := 0
	holder, captured := b.captures[tag]
	if captured {
		// The capturer is the exclusive recipient. When it has no handler
		// for this type the event goes nowhere.
		if r := list.at(holder); r != nil && r(p) {
			delivered = 1
			b.stats.captured.Add(1)
		} else {
			b.stats.swallowed.Add(1)
		}
	} else if list != nil {
		// Length is fixed up front and every slot re-read, so handlers
		// can mutate the list while we walk it.
		n := len(list.slots)
		for i := range n {
			if r := list.at(ID(i)); r != nil && r(p) {
				delivered++
			}
		}
	}

	b.stats.deliveries.Add(uint64(delivered))
	if b.config.observer != nil {
		b.config.observer.ObservePublish(tag, p.name, delivered, captured)
	}
}
