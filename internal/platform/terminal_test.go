package platform

import (
	"slices"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
)

// recorder collects the typed events a Terminal publishes.
type recorder struct {
	raw     int
	keys    []events.Key
	buttons []events.MouseButton
	motion  []events.MouseMotion
	wheel   []events.MouseWheel
	resizes []events.Resize
	focus   []events.Focus
	pastes  []events.Paste
	quits   int
}

func newRecorder(bus *event.Bus) *recorder {
	r := &recorder{}
	id := bus.AcquireID()
	event.Subscribe(bus, id, func(*events.Raw) { r.raw++ })
	event.Subscribe(bus, id, func(e *events.Key) { r.keys = append(r.keys, *e) })
	event.Subscribe(bus, id, func(e *events.MouseButton) { r.buttons = append(r.buttons, *e) })
	event.Subscribe(bus, id, func(e *events.MouseMotion) { r.motion = append(r.motion, *e) })
	event.Subscribe(bus, id, func(e *events.MouseWheel) { r.wheel = append(r.wheel, *e) })
	event.Subscribe(bus, id, func(e *events.Resize) { r.resizes = append(r.resizes, *e) })
	event.Subscribe(bus, id, func(e *events.Focus) { r.focus = append(r.focus, *e) })
	event.Subscribe(bus, id, func(e *events.Paste) { r.pastes = append(r.pastes, *e) })
	event.Subscribe(bus, id, func(*events.Quit) { r.quits++ })
	return r
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want events.Key
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone),
			events.Key{Code: events.KeyRune, Rune: 'x'}},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModShift),
			events.Key{Code: events.KeyRune, Rune: 'X', Mod: events.ModShift}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
			events.Key{Code: events.KeyEnter}},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
			events.Key{Code: events.KeyEscape}},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone),
			events.Key{Code: events.KeyBackspace}},
		{"alt up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModAlt),
			events.Key{Code: events.KeyUp, Mod: events.ModAlt}},
		{"f5", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone),
			events.Key{Code: events.KeyF5}},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlW, 0, tcell.ModCtrl),
			events.Key{Code: events.KeyRune, Rune: 'w', Mod: events.ModCtrl}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertKey(tt.ev); got != tt.want {
				t.Errorf("convertKey() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPublishKey(t *testing.T) {
	bus := event.New()
	rec := newRecorder(bus)
	term := &Terminal{}

	term.publish(bus, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))

	if rec.raw != 1 || len(rec.keys) != 1 {
		t.Fatalf("raw=%d keys=%d, want 1 1", rec.raw, len(rec.keys))
	}
	if rec.keys[0].Rune != 'q' {
		t.Errorf("key = %+v", rec.keys[0])
	}
	if rec.quits != 0 {
		t.Error("plain key published Quit")
	}
}

func TestPublishCtrlCQuits(t *testing.T) {
	bus := event.New()
	rec := newRecorder(bus)
	term := &Terminal{}

	term.publish(bus, tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))

	if len(rec.keys) != 1 || rec.keys[0].Rune != 'c' {
		t.Fatalf("keys = %+v", rec.keys)
	}
	if rec.quits != 1 {
		t.Errorf("quits = %d, want 1", rec.quits)
	}
}

func TestPublishMouse(t *testing.T) {
	bus := event.New()
	rec := newRecorder(bus)
	term := &Terminal{}

	term.publish(bus, tcell.NewEventMouse(3, 4, tcell.ButtonNone, tcell.ModNone))
	term.publish(bus, tcell.NewEventMouse(3, 4, tcell.ButtonPrimary, tcell.ModNone))
	term.publish(bus, tcell.NewEventMouse(5, 4, tcell.ButtonPrimary, tcell.ModNone))
	term.publish(bus, tcell.NewEventMouse(5, 4, tcell.ButtonSecondary, tcell.ModNone))
	term.publish(bus, tcell.NewEventMouse(5, 4, tcell.WheelUp, tcell.ModNone))

	wantMotion := []events.MouseMotion{{X: 3, Y: 4}, {X: 5, Y: 4}}
	if !slices.Equal(rec.motion, wantMotion) {
		t.Errorf("motion = %+v, want %+v", rec.motion, wantMotion)
	}

	wantButtons := []events.MouseButton{
		{Button: events.ButtonLeft, Down: true, X: 3, Y: 4},
		{Button: events.ButtonLeft, Down: false, X: 5, Y: 4},
		{Button: events.ButtonRight, Down: true, X: 5, Y: 4},
		{Button: events.ButtonRight, Down: false, X: 5, Y: 4},
	}
	if !slices.Equal(rec.buttons, wantButtons) {
		t.Errorf("buttons = %+v, want %+v", rec.buttons, wantButtons)
	}

	wantWheel := []events.MouseWheel{{DY: 1, X: 5, Y: 4}}
	if !slices.Equal(rec.wheel, wantWheel) {
		t.Errorf("wheel = %+v, want %+v", rec.wheel, wantWheel)
	}
	if rec.raw != 5 {
		t.Errorf("raw = %d, want 5", rec.raw)
	}
}

func TestPublishOther(t *testing.T) {
	bus := event.New()
	rec := newRecorder(bus)
	term := &Terminal{}

	term.publish(bus, tcell.NewEventResize(120, 40))
	term.publish(bus, tcell.NewEventFocus(false))
	term.publish(bus, tcell.NewEventPaste(true))
	term.publish(bus, tcell.NewEventPaste(false))

	if !slices.Equal(rec.resizes, []events.Resize{{Width: 120, Height: 40}}) {
		t.Errorf("resizes = %+v", rec.resizes)
	}
	if !slices.Equal(rec.focus, []events.Focus{{Focused: false}}) {
		t.Errorf("focus = %+v", rec.focus)
	}
	if !slices.Equal(rec.pastes, []events.Paste{{Start: true}, {Start: false}}) {
		t.Errorf("pastes = %+v", rec.pastes)
	}
}

func TestConvertStyle(t *testing.T) {
	s := Style{}.Fg(RGB(255, 0, 0)).Bg(Palette(4)).With(AttrBold | AttrUnderline)
	fg, bg, attrs := convertStyle(s).Decompose()

	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("fg = %v", fg)
	}
	if bg != tcell.PaletteColor(4) {
		t.Errorf("bg = %v", bg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("bold not set")
	}
	if attrs&tcell.AttrReverse != 0 {
		t.Error("reverse set")
	}

	fg, _, _ = convertStyle(Style{}).Decompose()
	if fg != tcell.ColorDefault {
		t.Errorf("default fg = %v", fg)
	}
}
