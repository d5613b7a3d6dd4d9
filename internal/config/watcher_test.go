package config

import (
	"os"
	"testing"
	"time"

	"github.com/dshills/hermes/internal/event"
)

type reloadRecorder struct {
	reloaded []Reloaded
	failed   []ReloadFailed
}

func watchFixture(t *testing.T, content string) (*event.Bus, *Watcher, *reloadRecorder, string) {
	t.Helper()
	path := writeFile(t, "hermes.toml", content)

	bus := event.New()
	rec := &reloadRecorder{}
	id := bus.AcquireID()
	event.Subscribe(bus, id, func(r *Reloaded) { rec.reloaded = append(rec.reloaded, *r) })
	event.Subscribe(bus, id, func(r *ReloadFailed) { rec.failed = append(rec.failed, *r) })

	w, err := NewWatcher(path, bus.Inbox(), WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return bus, w, rec, path
}

// drainUntil drains the bus inbox until done reports true or time runs out.
func drainUntil(t *testing.T, bus *event.Bus, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		bus.Drain()
		if done() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for reload")
}

func TestWatcherReloads(t *testing.T) {
	bus, w, rec, path := watchFixture(t, "[engine]\noverlay = false\n")

	if err := os.WriteFile(path, []byte("[engine]\noverlay = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	drainUntil(t, bus, func() bool { return len(rec.reloaded) > 0 })

	got := rec.reloaded[len(rec.reloaded)-1]
	if !got.Config.Engine.Overlay {
		t.Error("reloaded config has Overlay = false")
	}
	if got.Path != w.Path() {
		t.Errorf("Path = %q, want %q", got.Path, w.Path())
	}
	if len(rec.failed) != 0 {
		t.Errorf("unexpected failures: %v", rec.failed)
	}
}

func TestWatcherReportsFailure(t *testing.T) {
	bus, _, rec, path := watchFixture(t, "[engine]\n")

	if err := os.WriteFile(path, []byte("[engine]\ntarget_fps = -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	drainUntil(t, bus, func() bool { return len(rec.failed) > 0 })

	if rec.failed[0].Err == nil {
		t.Error("ReloadFailed.Err = nil")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	bus, w, rec, path := watchFixture(t, "[engine]\n")

	sibling := path + ".swp"
	if err := os.WriteFile(sibling, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	bus.Drain()

	if w.Reloads() != 0 || len(rec.reloaded) != 0 {
		t.Errorf("sibling write triggered reload: %d", w.Reloads())
	}
}

func TestWatcherClose(t *testing.T) {
	_, w, _, _ := watchFixture(t, "")
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
