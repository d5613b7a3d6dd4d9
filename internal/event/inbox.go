package event

import "sync/atomic"

// Inbox is the goroutine-safe entry point of a Bus. Work posted from any
// goroutine runs on the bus owner at the next Drain.
type Inbox struct {
	ch      chan func(*Bus)
	dropped atomic.Uint64
}

func newInbox(size int) *Inbox {
	return &Inbox{ch: make(chan func(*Bus), size)}
}

// Post queues ev to be published on the bus owner goroutine.
// It never blocks; a full inbox returns ErrInboxFull.
func Post[T any](in *Inbox, ev T) error {
	return in.PostFunc(func(b *Bus) {
		Publish(b, ev)
	})
}

// PostFunc queues fn to run on the bus owner goroutine.
// It never blocks; a full inbox returns ErrInboxFull.
func (in *Inbox) PostFunc(fn func(*Bus)) error {
	if fn == nil {
		return nil
	}
	select {
	case in.ch <- fn:
		return nil
	default:
		in.dropped.Add(1)
		return ErrInboxFull
	}
}

// Len returns the number of queued entries.
func (in *Inbox) Len() int {
	return len(in.ch)
}

// Cap returns the inbox capacity.
func (in *Inbox) Cap() int {
	return cap(in.ch)
}

// Dropped returns the number of posts rejected because the inbox was full.
func (in *Inbox) Dropped() uint64 {
	return in.dropped.Load()
}

// drain runs the entries queued when it was called. Entries posted while
// draining are left for the next call.
func (in *Inbox) drain(b *Bus) int {
	n := len(in.ch)
	for i := range n {
		select {
		case fn := <-in.ch:
			fn(b)
		default:
			return i
		}
	}
	return n
}
