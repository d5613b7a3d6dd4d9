package events

import (
	"strconv"
	"strings"
	"time"
)

// Modifier is a bit set of keyboard modifiers.
type Modifier uint8

// Keyboard modifiers.
const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta // Cmd on macOS, Win on Windows

	ModNone Modifier = 0
)

// Has reports whether all modifiers in m are set.
func (mod Modifier) Has(m Modifier) bool {
	return mod&m == m
}

// String returns the modifiers joined with "+", e.g. "ctrl+shift".
func (mod Modifier) String() string {
	if mod == ModNone {
		return ""
	}
	var parts []string
	if mod.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if mod.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if mod.Has(ModMeta) {
		parts = append(parts, "meta")
	}
	if mod.Has(ModShift) {
		parts = append(parts, "shift")
	}
	return strings.Join(parts, "+")
}

// KeyCode identifies a key. Printable keys use KeyRune with the character in
// Key.Rune.
type KeyCode int

// Key codes.
const (
	KeyUnknown KeyCode = iota
	KeyRune
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyBacktab
	KeyDelete
	KeyInsert
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[KeyCode]string{
	KeyUnknown:   "Unknown",
	KeyRune:      "Rune",
	KeyEnter:     "Enter",
	KeyEscape:    "Escape",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyBacktab:   "Backtab",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
}

// String returns the key name.
func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= KeyF1 && k <= KeyF12 {
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	return "Unknown"
}

// Raw is published for every native platform event before its typed
// translation. Input capture consumers inspect it to update their state.
type Raw struct {
	// Native is the backend's own event value.
	Native any

	// Time is when the platform reported the event.
	Time time.Time
}

// Key is published when a key is pressed.
type Key struct {
	// Code identifies the key.
	Code KeyCode

	// Rune is the character for KeyRune.
	Rune rune

	// Mod holds the active modifiers.
	Mod Modifier

	// Time is when the key was pressed.
	Time time.Time
}

// String returns a readable form such as "ctrl+a" or "Enter".
func (k Key) String() string {
	name := k.Code.String()
	if k.Code == KeyRune {
		name = string(k.Rune)
	}
	if k.Mod == ModNone {
		return name
	}
	return k.Mod.String() + "+" + name
}

// Button identifies a mouse button.
type Button int

// Mouse buttons.
const (
	ButtonLeft Button = iota + 1
	ButtonMiddle
	ButtonRight
)

// MouseButton is published when a mouse button is pressed or released.
type MouseButton struct {
	Button Button
	Down   bool
	X, Y   int
	Mod    Modifier
}

// MouseMotion is published when the pointer moves.
type MouseMotion struct {
	X, Y int
	Mod  Modifier
}

// MouseWheel is published when the wheel scrolls. Positive DY scrolls up.
type MouseWheel struct {
	DX, DY int
	X, Y   int
}

// Resize is published when the surface size changes.
type Resize struct {
	Width, Height int
}

// Focus is published when the surface gains or loses input focus.
type Focus struct {
	Focused bool
}

// Paste is published at the start and end of a bracketed paste.
type Paste struct {
	Start bool
}
