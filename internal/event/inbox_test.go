package event

import (
	"errors"
	"sync"
	"testing"
)

func TestInboxPostDrain(t *testing.T) {
	b := New()
	id := b.AcquireID()
	var got []int
	Subscribe(b, id, func(e *ping) { got = append(got, e.N) })

	in := b.Inbox()
	for i := range 3 {
		if err := Post(in, ping{N: i}); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
	}
	if len(got) != 0 {
		t.Fatal("Post published before Drain")
	}
	if in.Len() != 3 {
		t.Errorf("Len() = %d, want 3", in.Len())
	}

	if n := b.Drain(); n != 3 {
		t.Errorf("Drain() = %d, want 3", n)
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("got = %v, want [0 1 2]", got)
	}
	if in.Len() != 0 {
		t.Errorf("Len() after drain = %d", in.Len())
	}
}

func TestInboxFull(t *testing.T) {
	b := New(WithInboxSize(2))
	in := b.Inbox()

	if in.Cap() != 2 {
		t.Fatalf("Cap() = %d, want 2", in.Cap())
	}
	_ = Post(in, ping{})
	_ = Post(in, ping{})
	if err := Post(in, ping{}); !errors.Is(err, ErrInboxFull) {
		t.Errorf("Post() on full inbox = %v, want ErrInboxFull", err)
	}

	stats := b.Stats()
	if stats.InboxDropped != 1 || stats.InboxDepth != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestInboxPostDuringDrain(t *testing.T) {
	b := New()
	in := b.Inbox()
	runs := 0

	var requeue func(*Bus)
	requeue = func(*Bus) {
		runs++
		_ = in.PostFunc(requeue)
	}
	_ = in.PostFunc(requeue)

	if n := b.Drain(); n != 1 {
		t.Errorf("first Drain() = %d, want 1", n)
	}
	if n := b.Drain(); n != 1 {
		t.Errorf("second Drain() = %d, want 1", n)
	}
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestInboxPostFuncNil(t *testing.T) {
	b := New()
	if err := b.Inbox().PostFunc(nil); err != nil {
		t.Errorf("PostFunc(nil) = %v", err)
	}
	if b.Inbox().Len() != 0 {
		t.Error("nil func was queued")
	}
}

func TestInboxConcurrentPost(t *testing.T) {
	const workers, each = 8, 50

	b := New(WithInboxSize(workers * each))
	id := b.AcquireID()
	total := 0
	Subscribe(b, id, func(e *ping) { total += e.N })

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				if err := Post(b.Inbox(), ping{N: 1}); err != nil {
					t.Errorf("Post() error = %v", err)
				}
			}
		}()
	}
	wg.Wait()

	b.Drain()
	if total != workers*each {
		t.Errorf("total = %d, want %d", total, workers*each)
	}
}
