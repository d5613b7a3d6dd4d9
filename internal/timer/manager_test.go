package timer

import (
	"slices"
	"testing"
	"time"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
)

func newTestManager(t *testing.T, opts ...Option) (*event.Bus, *Manager) {
	t.Helper()
	bus := event.New(event.WithDebugChecks(true))
	m := New(bus, opts...)
	t.Cleanup(m.Close)
	return bus, m
}

func tick(bus *event.Bus, dt float64, n int) {
	for range n {
		event.Publish(bus, events.PreUpdate{DT: dt})
	}
}

func TestEvery(t *testing.T) {
	bus, m := newTestManager(t)
	fired := 0
	m.Every(time.Second, func() { fired++ })

	tick(bus, 0.25, 1)
	if fired != 1 {
		t.Fatalf("fired = %d after first tick, want 1", fired)
	}

	tick(bus, 0.25, 2)
	if fired != 1 {
		t.Fatalf("fired = %d before period elapsed, want 1", fired)
	}

	tick(bus, 0.25, 1)
	if fired != 2 {
		t.Errorf("fired = %d after one period, want 2", fired)
	}
}

func TestEveryCount(t *testing.T) {
	bus, m := newTestManager(t)
	fired := 0
	h := m.Every(100*time.Millisecond, func() { fired++ }, Count(3))

	tick(bus, 0.1, 10)
	if fired != 3 {
		t.Errorf("fired = %d, want 3", fired)
	}
	if m.Active(h) {
		t.Error("timer still active after count")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestUntil(t *testing.T) {
	bus, m := newTestManager(t)
	calls := 0
	h := m.Until(100*time.Millisecond, func() bool {
		calls++
		return calls < 4
	})

	tick(bus, 0.1, 10)
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if m.Active(h) {
		t.Error("Until timer still active after returning false")
	}
}

func TestUntilCount(t *testing.T) {
	bus, m := newTestManager(t)
	calls := 0
	m.Until(100*time.Millisecond, func() bool {
		calls++
		return true
	}, Count(2))

	tick(bus, 0.1, 10)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestAfter(t *testing.T) {
	bus, m := newTestManager(t)
	fired := 0
	m.After(time.Second, func() { fired++ })

	tick(bus, 0.5, 1)
	if fired != 0 {
		t.Fatal("After fired early")
	}
	tick(bus, 0.5, 1)
	if fired != 1 {
		t.Fatalf("fired = %d at deadline, want 1", fired)
	}
	tick(bus, 0.5, 4)
	if fired != 1 {
		t.Errorf("After fired %d times, want 1", fired)
	}
}

func TestDuring(t *testing.T) {
	bus, m := newTestManager(t)
	ticks, afters := 0, 0
	m.During(time.Second, func() { ticks++ }, func() { afters++ })

	tick(bus, 0.25, 6)

	// Four ticks consume the duration; the fourth also runs after.
	if ticks != 4 {
		t.Errorf("ticks = %d, want 4", ticks)
	}
	if afters != 1 {
		t.Errorf("afters = %d, want 1", afters)
	}
}

func TestDuringNilAfter(t *testing.T) {
	bus, m := newTestManager(t)
	h := m.During(100*time.Millisecond, func() {}, nil)
	tick(bus, 0.1, 2)
	if m.Active(h) {
		t.Error("During timer still active")
	}
}

func TestIntervals(t *testing.T) {
	picks := []int{1, 0, 1}
	rn := func(n int) int {
		if n != 2 {
			t.Errorf("rand(%d), want rand(2)", n)
		}
		p := picks[0]
		picks = append(picks[1:], p)
		return p
	}

	bus, m := newTestManager(t, WithRand(rn))
	var at []int
	frame := 0
	m.Every(time.Hour, func() { at = append(at, frame) },
		Intervals(250*time.Millisecond, 750*time.Millisecond))

	for frame = range 10 {
		tick(bus, 0.25, 1)
	}

	// Periods picked: 0.75, 0.25, 0.75, 0.75. The first tick overshoots
	// by one frame, which carries into every later period.
	if !slices.Equal(at, []int{0, 2, 3, 6, 9}) {
		t.Errorf("fired at frames %v", at)
	}
}

func TestCreationOrder(t *testing.T) {
	bus, m := newTestManager(t)
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		m.Every(time.Second, func() { order = append(order, name) })
	}

	tick(bus, 0.1, 1)
	if !slices.Equal(order, []string{"a", "b", "c"}) {
		t.Errorf("order = %v", order)
	}
}

func TestCancel(t *testing.T) {
	bus, m := newTestManager(t)
	fired := 0
	h := m.Every(time.Second, func() { fired++ })

	if !m.Cancel(h) {
		t.Fatal("Cancel() = false")
	}
	if m.Cancel(h) {
		t.Error("second Cancel() = true")
	}
	tick(bus, 1, 3)
	if fired != 0 {
		t.Errorf("cancelled timer fired %d times", fired)
	}
}

func TestCancelFromCallback(t *testing.T) {
	bus, m := newTestManager(t)
	var second string
	secondFired := 0
	m.Every(time.Second, func() { m.Cancel(second) })
	second = m.Every(time.Second, func() { secondFired++ })

	tick(bus, 0.1, 3)
	if secondFired != 0 {
		t.Errorf("timer cancelled earlier in the tick fired %d times", secondFired)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestScheduleFromCallback(t *testing.T) {
	bus, m := newTestManager(t)
	childFired := 0
	m.After(0, func() {
		m.Every(time.Second, func() { childFired++ })
	})

	tick(bus, 0.1, 1)
	if childFired != 0 {
		t.Fatal("timer created during a tick ran in the same tick")
	}
	tick(bus, 0.1, 1)
	if childFired != 1 {
		t.Errorf("childFired = %d, want 1", childFired)
	}
}

func TestPauseResume(t *testing.T) {
	bus, m := newTestManager(t)
	fired := 0
	h := m.After(750*time.Millisecond, func() { fired++ })

	tick(bus, 0.25, 2)
	if !m.Pause(h) {
		t.Fatal("Pause() = false")
	}
	tick(bus, 0.25, 5)
	if fired != 0 {
		t.Fatal("paused timer fired")
	}

	m.Resume(h)
	tick(bus, 0.25, 1)
	if fired != 1 {
		t.Errorf("fired = %d after resume, want 1", fired)
	}
	if m.Pause("missing") || m.Resume("missing") {
		t.Error("Pause/Resume of unknown handle reported true")
	}
}

func TestClearAndClose(t *testing.T) {
	bus := event.New(event.WithDebugChecks(true))
	m := New(bus)
	fired := 0
	m.Every(time.Second, func() { fired++ })
	m.After(time.Second, func() { fired++ })

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d", m.Len())
	}

	m.Close()
	m.Close()
	if h := m.Every(time.Second, func() {}); h != "" {
		t.Errorf("Every on closed manager = %q, want empty", h)
	}
	tick(bus, 1, 2)
	if fired != 0 {
		t.Errorf("fired = %d after Clear", fired)
	}
	if bus.Stats().LiveIDs != 0 {
		t.Errorf("LiveIDs = %d after Close, want 0", bus.Stats().LiveIDs)
	}
}

func TestHandles(t *testing.T) {
	_, m := newTestManager(t)
	seen := make(map[string]bool)
	for range 200 {
		h := m.After(time.Hour, func() {})
		if len(h) != HandleLen {
			t.Fatalf("handle %q has length %d", h, len(h))
		}
		if seen[h] {
			t.Fatalf("duplicate handle %q", h)
		}
		seen[h] = true
	}
}
