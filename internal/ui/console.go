package ui

import (
	"slices"

	"go.uber.org/zap"

	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
	"github.com/dshills/hermes/internal/platform"
)

// CommandSubmitted is published when a console line is entered.
type CommandSubmitted struct {
	Line string
}

// DefaultToggleKey opens and closes the console.
const DefaultToggleKey = '`'

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithToggleKey sets the rune that opens and closes the console.
func WithToggleKey(r rune) ConsoleOption {
	return func(c *Console) {
		if r != 0 {
			c.toggle = r
		}
	}
}

// WithPrompt sets the prompt drawn before the input line.
func WithPrompt(p string) ConsoleOption {
	return func(c *Console) {
		c.prompt = p
	}
}

// WithHistorySize caps the number of remembered lines.
func WithHistorySize(n int) ConsoleOption {
	return func(c *Console) {
		if n > 0 {
			c.historySize = n
		}
	}
}

// WithLogger sets the console logger.
func WithLogger(l *zap.Logger) ConsoleOption {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

var (
	consoleStyle = platform.Style{}.Fg(platform.RGB(0xff, 0xff, 0xff)).Bg(platform.RGB(0x30, 0x30, 0x30))
	cursorStyle  = consoleStyle.With(platform.AttrReverse)
)

// Console is a one-line command prompt drawn over the scene. While open it
// takes the keyboard from every other subscriber.
type Console struct {
	bus     *event.Bus
	surface platform.Backend
	layer   *Layer
	logger  *zap.Logger

	toggle      rune
	prompt      string
	open        bool
	line        []rune
	history     []string
	historySize int
	recall      int // index into history while browsing, len(history) otherwise
}

// NewConsole creates a closed console drawing on surface.
func NewConsole(bus *event.Bus, surface platform.Backend, opts ...ConsoleOption) *Console {
	c := &Console{
		bus:         bus,
		surface:     surface,
		logger:      zap.NewNop(),
		toggle:      DefaultToggleKey,
		prompt:      "> ",
		historySize: 100,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.layer = NewLayer(bus, c, c.logger)
	c.logger = c.logger.Named("console")

	id := c.layer.ID()
	event.Subscribe(bus, id, func(k *events.Key) { c.handleKey(*k) })
	event.Subscribe(bus, id, func(*events.DrawOverlay) { c.draw() })
	return c
}

// WantsKeyboard implements InputWanter.
func (c *Console) WantsKeyboard() bool { return c.open }

// WantsMouse implements InputWanter.
func (c *Console) WantsMouse() bool { return false }

// IsOpen reports whether the console is open.
func (c *Console) IsOpen() bool { return c.open }

// Line returns the text typed so far.
func (c *Console) Line() string { return string(c.line) }

// History returns submitted lines, oldest first.
func (c *Console) History() []string { return slices.Clone(c.history) }

// Layer returns the console's capture layer.
func (c *Console) Layer() *Layer { return c.layer }

// Open opens the console. The keyboard capture follows on the next raw
// input event.
func (c *Console) Open() {
	c.open = true
	c.recall = len(c.history)
}

// Close closes the console and discards the current line.
func (c *Console) Close() {
	c.open = false
	c.line = c.line[:0]
}

// Toggle opens a closed console or closes an open one.
func (c *Console) Toggle() {
	if c.open {
		c.Close()
	} else {
		c.Open()
	}
}

// Destroy releases the console's bus ID.
func (c *Console) Destroy() {
	c.layer.Close()
}

func (c *Console) handleKey(k events.Key) {
	isToggle := k.Code == events.KeyRune && k.Rune == c.toggle && k.Mod == events.ModNone
	if !c.open {
		if isToggle {
			c.Open()
		}
		return
	}

	switch {
	case isToggle, k.Code == events.KeyEscape:
		c.Close()
	case k.Code == events.KeyEnter:
		c.submit()
	case k.Code == events.KeyBackspace:
		if n := len(c.line); n > 0 {
			c.line = c.line[:n-1]
		}
	case k.Code == events.KeyUp:
		c.browse(-1)
	case k.Code == events.KeyDown:
		c.browse(1)
	case k.Code == events.KeyRune && !k.Mod.Has(events.ModCtrl) && !k.Mod.Has(events.ModAlt):
		c.line = append(c.line, k.Rune)
	}
}

func (c *Console) submit() {
	line := string(c.line)
	c.line = c.line[:0]
	if line == "" {
		return
	}

	c.history = append(c.history, line)
	if len(c.history) > c.historySize {
		c.history = c.history[len(c.history)-c.historySize:]
	}
	c.recall = len(c.history)

	c.logger.Debug("command submitted", zap.String("line", line))
	event.Publish(c.bus, CommandSubmitted{Line: line})
}

// browse moves through history; moving past the newest entry clears the line.
func (c *Console) browse(delta int) {
	next := c.recall + delta
	if next < 0 || next > len(c.history) {
		return
	}
	c.recall = next
	if next == len(c.history) {
		c.line = c.line[:0]
		return
	}
	c.line = []rune(c.history[next])
}

func (c *Console) draw() {
	if !c.open {
		return
	}
	width, height := c.surface.Size()
	if height == 0 {
		return
	}
	y := height - 1
	text := c.prompt + string(c.line)

	c.surface.Print(0, y, padRight(text, width), consoleStyle)
	c.surface.Print(len([]rune(text)), y, " ", cursorStyle)
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + string(slices.Repeat([]rune{' '}, width-n))
}
