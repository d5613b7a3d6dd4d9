// Package platform connects the engine to a drawing surface and turns the
// surface's native input into bus events.
package platform

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/hermes/internal/event"
)

// Backend is a character-cell drawing surface with an input pump.
// All methods are called from the engine goroutine.
type Backend interface {
	// Init prepares the surface. Must be called before any other method.
	Init() error

	// Shutdown releases the surface and restores terminal state.
	Shutdown()

	// Size returns the surface dimensions in cells.
	Size() (width, height int)

	// Clear blanks the back buffer.
	Clear()

	// Print draws text starting at x, y. Cells outside the surface are
	// silently dropped.
	Print(x, y int, text string, style Style)

	// Present makes the back buffer visible.
	Present()

	// Pump publishes every pending native event on bus without blocking.
	// It returns the number of native events handled.
	Pump(bus *event.Bus) int
}

// Color is a cell color. The zero value is the terminal default.
type Color uint32

const (
	// ColorDefault leaves the terminal's color unchanged.
	ColorDefault Color = 0

	rgbFlag     Color = 1 << 24
	paletteFlag Color = 1 << 25
)

// Palette returns the 256-color palette entry n.
func Palette(n uint8) Color {
	return paletteFlag | Color(n)
}

// RGB returns a true color.
func RGB(r, g, b uint8) Color {
	return rgbFlag | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// ParseColor parses "#rrggbb" or "default".
func ParseColor(s string) (Color, error) {
	if s == "" || s == "default" {
		return ColorDefault, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return ColorDefault, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

// IsRGB reports whether c is a true color.
func (c Color) IsRGB() bool { return c&rgbFlag != 0 }

// IsPalette reports whether c is a palette entry.
func (c Color) IsPalette() bool { return c&paletteFlag != 0 }

// Components returns the red, green and blue bytes of a true color, or the
// palette index in b for a palette color.
func (c Color) Components() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Attr is a set of text attributes.
type Attr uint8

// Text attributes.
const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse

	AttrNone Attr = 0
)

// Has returns true if the set contains attr.
func (a Attr) Has(attr Attr) bool {
	return a&attr != 0
}

// Style describes how text is drawn. The zero value is the terminal default.
type Style struct {
	Foreground Color
	Background Color
	Attr       Attr
}

// Fg returns s with the foreground set.
func (s Style) Fg(c Color) Style {
	s.Foreground = c
	return s
}

// Bg returns s with the background set.
func (s Style) Bg(c Color) Style {
	s.Background = c
	return s
}

// With returns s with attr added.
func (s Style) With(attr Attr) Style {
	s.Attr |= attr
	return s
}
