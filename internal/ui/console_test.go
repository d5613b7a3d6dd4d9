package ui

import (
	"slices"
	"strings"
	"testing"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
	"github.com/dshills/hermes/internal/platform"
)

type consoleFixture struct {
	bus      *event.Bus
	null     *platform.Null
	console  *Console
	commands []string
	keys     int
}

func newConsoleFixture(t *testing.T, opts ...ConsoleOption) *consoleFixture {
	t.Helper()
	f := &consoleFixture{
		bus:  event.New(event.WithDebugChecks(true)),
		null: platform.NewNull(20, 4),
	}
	f.console = NewConsole(f.bus, f.null, opts...)
	t.Cleanup(f.console.Destroy)

	listener := f.bus.AcquireID()
	event.Subscribe(f.bus, listener, func(c *CommandSubmitted) { f.commands = append(f.commands, c.Line) })
	event.Subscribe(f.bus, listener, func(*events.Key) { f.keys++ })
	return f
}

func (f *consoleFixture) typeKeys(keys ...events.Key) {
	for _, k := range keys {
		platform.Inject(f.null, k)
	}
	f.null.Pump(f.bus)
}

func runes(s string) []events.Key {
	keys := make([]events.Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, events.Key{Code: events.KeyRune, Rune: r})
	}
	return keys
}

var (
	enter     = events.Key{Code: events.KeyEnter}
	escape    = events.Key{Code: events.KeyEscape}
	backspace = events.Key{Code: events.KeyBackspace}
	up        = events.Key{Code: events.KeyUp}
	down      = events.Key{Code: events.KeyDown}
)

func TestConsoleSubmit(t *testing.T) {
	f := newConsoleFixture(t)

	f.typeKeys(runes("`")...)
	if !f.console.IsOpen() {
		t.Fatal("console not open after toggle key")
	}
	if f.keys != 1 {
		t.Fatalf("keys = %d, want the toggle key only", f.keys)
	}

	f.typeKeys(runes("quitt")...)
	f.typeKeys(backspace, enter)

	if !slices.Equal(f.commands, []string{"quit"}) {
		t.Errorf("commands = %q, want [quit]", f.commands)
	}
	if f.keys != 1 {
		t.Errorf("keys = %d, other subscribers saw captured keys", f.keys)
	}
	if f.console.Line() != "" {
		t.Errorf("Line() = %q after submit", f.console.Line())
	}
	if !slices.Equal(f.console.History(), []string{"quit"}) {
		t.Errorf("History() = %q", f.console.History())
	}
}

func TestConsoleCloseReleasesKeyboard(t *testing.T) {
	f := newConsoleFixture(t)

	f.typeKeys(runes("`ab")...)
	f.typeKeys(escape)
	if f.console.IsOpen() {
		t.Fatal("console still open after escape")
	}
	if f.console.Line() != "" {
		t.Errorf("Line() = %q after close", f.console.Line())
	}

	before := f.keys
	f.typeKeys(runes("x")...)
	if f.keys != before+1 {
		t.Errorf("keys = %d, want %d after release", f.keys, before+1)
	}
	if len(f.commands) != 0 {
		t.Errorf("commands = %q, want none", f.commands)
	}
}

func TestConsoleToggleIgnoresModifiers(t *testing.T) {
	f := newConsoleFixture(t, WithToggleKey('~'))

	f.typeKeys(events.Key{Code: events.KeyRune, Rune: '~', Mod: events.ModCtrl})
	if f.console.IsOpen() {
		t.Error("opened with ctrl held")
	}
	f.typeKeys(runes("`")...)
	if f.console.IsOpen() {
		t.Error("opened by the default key after it was replaced")
	}
	f.typeKeys(runes("~")...)
	if !f.console.IsOpen() {
		t.Error("not opened by custom toggle key")
	}
	f.typeKeys(runes("~")...)
	if f.console.IsOpen() {
		t.Error("toggle key did not close the console")
	}
}

func TestConsoleHistory(t *testing.T) {
	f := newConsoleFixture(t, WithHistorySize(2))

	f.typeKeys(runes("`")...)
	for _, line := range []string{"one", "two", "three"} {
		f.typeKeys(runes(line)...)
		f.typeKeys(enter)
	}
	if !slices.Equal(f.console.History(), []string{"two", "three"}) {
		t.Fatalf("History() = %q", f.console.History())
	}

	steps := []struct {
		key  events.Key
		want string
	}{
		{up, "three"},
		{up, "two"},
		{up, "two"},
		{down, "three"},
		{down, ""},
		{down, ""},
	}
	for i, s := range steps {
		f.typeKeys(s.key)
		if got := f.console.Line(); got != s.want {
			t.Errorf("step %d: Line() = %q, want %q", i, got, s.want)
		}
	}

	f.typeKeys(enter)
	if len(f.commands) != 3 {
		t.Errorf("empty line was submitted: %q", f.commands)
	}
}

func TestConsoleDraw(t *testing.T) {
	f := newConsoleFixture(t, WithPrompt(": "))

	event.Publish(f.bus, events.DrawOverlay{})
	if f.null.Row(3) != "" {
		t.Errorf("closed console drew %q", f.null.Row(3))
	}

	f.typeKeys(runes("`echo hi")...)
	event.Publish(f.bus, events.DrawOverlay{})

	if got := f.null.Row(3); got != ": echo hi" {
		t.Errorf("Row(3) = %q, want %q", got, ": echo hi")
	}
	cursor := f.null.Cell(len(": echo hi"), 3)
	if !cursor.Style.Attr.Has(platform.AttrReverse) {
		t.Errorf("cursor style = %+v, want reverse", cursor.Style)
	}
	if strings.TrimSpace(f.null.Row(2)) != "" {
		t.Errorf("Row(2) = %q, want blank", f.null.Row(2))
	}
}
