package platform

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
)

// Terminal implements Backend using tcell.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	// Mouse state used to turn tcell's button masks into press and
	// release events.
	buttons  tcell.ButtonMask
	mouseX   int
	mouseY   int
	hasMouse bool
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewTerminalScreen(screen), nil
}

// NewTerminalScreen wraps an existing tcell screen, such as a simulation
// screen.
func NewTerminalScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.screen.HideCursor()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Print(x, y int, text string, style Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ts := convertStyle(style)
	forEachCluster(text, func(cluster string, width int) {
		runes := []rune(cluster)
		t.screen.SetContent(x, y, runes[0], runes[1:], ts)
		x += width
	})
}

func (t *Terminal) Present() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) Pump(bus *event.Bus) int {
	n := 0
	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		if ev == nil {
			break
		}
		t.publish(bus, ev)
		n++
	}
	return n
}

// publish announces a native event as events.Raw and then as its typed
// translation.
func (t *Terminal) publish(bus *event.Bus, ev tcell.Event) {
	event.Publish(bus, events.Raw{Native: ev, Time: ev.When()})

	switch e := ev.(type) {
	case *tcell.EventKey:
		key := convertKey(e)
		key.Time = e.When()
		event.Publish(bus, key)
		if key.Code == events.KeyRune && key.Rune == 'c' && key.Mod == events.ModCtrl {
			event.Publish(bus, events.Quit{Reason: "ctrl-c"})
		}

	case *tcell.EventMouse:
		t.publishMouse(bus, e)

	case *tcell.EventResize:
		w, h := e.Size()
		if t.screen != nil {
			t.screen.Sync()
		}
		event.Publish(bus, events.Resize{Width: w, Height: h})

	case *tcell.EventFocus:
		event.Publish(bus, events.Focus{Focused: e.Focused})

	case *tcell.EventPaste:
		event.Publish(bus, events.Paste{Start: e.Start()})
	}
}

var mouseButtons = []struct {
	mask   tcell.ButtonMask
	button events.Button
}{
	{tcell.ButtonPrimary, events.ButtonLeft},
	{tcell.ButtonMiddle, events.ButtonMiddle},
	{tcell.ButtonSecondary, events.ButtonRight},
}

// publishMouse splits one tcell mouse report into motion, button and wheel
// events.
func (t *Terminal) publishMouse(bus *event.Bus, e *tcell.EventMouse) {
	x, y := e.Position()
	mod := convertMod(e.Modifiers())
	mask := e.Buttons()

	if !t.hasMouse || x != t.mouseX || y != t.mouseY {
		t.hasMouse = true
		t.mouseX, t.mouseY = x, y
		event.Publish(bus, events.MouseMotion{X: x, Y: y, Mod: mod})
	}

	for _, b := range mouseButtons {
		now, before := mask&b.mask != 0, t.buttons&b.mask != 0
		if now != before {
			event.Publish(bus, events.MouseButton{Button: b.button, Down: now, X: x, Y: y, Mod: mod})
		}
	}
	t.buttons = mask & (tcell.ButtonPrimary | tcell.ButtonMiddle | tcell.ButtonSecondary)

	var dx, dy int
	if mask&tcell.WheelUp != 0 {
		dy++
	}
	if mask&tcell.WheelDown != 0 {
		dy--
	}
	if mask&tcell.WheelLeft != 0 {
		dx--
	}
	if mask&tcell.WheelRight != 0 {
		dx++
	}
	if dx != 0 || dy != 0 {
		event.Publish(bus, events.MouseWheel{DX: dx, DY: dy, X: x, Y: y})
	}
}

var keyCodes = map[tcell.Key]events.KeyCode{
	tcell.KeyRune:       events.KeyRune,
	tcell.KeyEnter:      events.KeyEnter,
	tcell.KeyEscape:     events.KeyEscape,
	tcell.KeyBackspace:  events.KeyBackspace,
	tcell.KeyBackspace2: events.KeyBackspace,
	tcell.KeyTab:        events.KeyTab,
	tcell.KeyBacktab:    events.KeyBacktab,
	tcell.KeyDelete:     events.KeyDelete,
	tcell.KeyInsert:     events.KeyInsert,
	tcell.KeyUp:         events.KeyUp,
	tcell.KeyDown:       events.KeyDown,
	tcell.KeyLeft:       events.KeyLeft,
	tcell.KeyRight:      events.KeyRight,
	tcell.KeyHome:       events.KeyHome,
	tcell.KeyEnd:        events.KeyEnd,
	tcell.KeyPgUp:       events.KeyPageUp,
	tcell.KeyPgDn:       events.KeyPageDown,
	tcell.KeyF1:         events.KeyF1,
	tcell.KeyF2:         events.KeyF2,
	tcell.KeyF3:         events.KeyF3,
	tcell.KeyF4:         events.KeyF4,
	tcell.KeyF5:         events.KeyF5,
	tcell.KeyF6:         events.KeyF6,
	tcell.KeyF7:         events.KeyF7,
	tcell.KeyF8:         events.KeyF8,
	tcell.KeyF9:         events.KeyF9,
	tcell.KeyF10:        events.KeyF10,
	tcell.KeyF11:        events.KeyF11,
	tcell.KeyF12:        events.KeyF12,
}

// convertKey translates a tcell key event. Control letters become the
// letter rune with ModCtrl.
func convertKey(e *tcell.EventKey) events.Key {
	k := events.Key{Mod: convertMod(e.Modifiers())}

	if code, ok := keyCodes[e.Key()]; ok {
		k.Code = code
		if code == events.KeyRune {
			k.Rune = e.Rune()
		}
		return k
	}

	if e.Key() >= tcell.KeyCtrlA && e.Key() <= tcell.KeyCtrlZ {
		k.Code = events.KeyRune
		k.Rune = 'a' + rune(e.Key()-tcell.KeyCtrlA)
		k.Mod |= events.ModCtrl
		return k
	}

	k.Code = events.KeyUnknown
	return k
}

func convertMod(m tcell.ModMask) events.Modifier {
	var mod events.Modifier
	if m&tcell.ModShift != 0 {
		mod |= events.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= events.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= events.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mod |= events.ModMeta
	}
	return mod
}

func convertColor(c Color) tcell.Color {
	switch {
	case c.IsRGB():
		r, g, b := c.Components()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	case c.IsPalette():
		_, _, n := c.Components()
		return tcell.PaletteColor(int(n))
	default:
		return tcell.ColorDefault
	}
}

func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.Foreground)).
		Background(convertColor(s.Background))

	if s.Attr.Has(AttrBold) {
		style = style.Bold(true)
	}
	if s.Attr.Has(AttrDim) {
		style = style.Dim(true)
	}
	if s.Attr.Has(AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attr.Has(AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attr.Has(AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}
