package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/hermes/internal/event/events"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

var keyNames = map[string]events.KeyCode{
	"enter": events.KeyEnter, "return": events.KeyEnter, "cr": events.KeyEnter,
	"esc": events.KeyEscape, "escape": events.KeyEscape,
	"bs": events.KeyBackspace, "backspace": events.KeyBackspace,
	"tab":     events.KeyTab,
	"backtab": events.KeyBacktab,
	"del":     events.KeyDelete, "delete": events.KeyDelete,
	"ins": events.KeyInsert, "insert": events.KeyInsert,
	"up": events.KeyUp, "down": events.KeyDown, "left": events.KeyLeft, "right": events.KeyRight,
	"home": events.KeyHome, "end": events.KeyEnd,
	"pageup": events.KeyPageUp, "pgup": events.KeyPageUp,
	"pagedown": events.KeyPageDown, "pgdn": events.KeyPageDown,
	"f1": events.KeyF1, "f2": events.KeyF2, "f3": events.KeyF3, "f4": events.KeyF4,
	"f5": events.KeyF5, "f6": events.KeyF6, "f7": events.KeyF7, "f8": events.KeyF8,
	"f9": events.KeyF9, "f10": events.KeyF10, "f11": events.KeyF11, "f12": events.KeyF12,
}

var runeNames = map[string]rune{
	"space":  ' ',
	"lt":     '<',
	"gt":     '>',
	"bar":    '|',
	"bslash": '\\',
	"plus":   '+',
	"minus":  '-',
}

// ParseKey parses a key specification into the key event it matches.
func ParseKey(spec string) (events.Key, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return events.Key{}, ErrEmptySpec
	}

	// Vim-style <...> notation
	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	// Modifier+key; a lone "+" is the plus key
	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKey(spec, events.ModNone)
}

// MustParseKey parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParseKey(spec string) events.Key {
	k, err := ParseKey(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return k
}

// parseVimStyle parses notation like "C-s", "A-F4", "CR".
func parseVimStyle(inner string) (events.Key, error) {
	parts := strings.Split(inner, "-")
	keyPart := parts[len(parts)-1]
	// "<C-->" binds ctrl+minus
	if keyPart == "" && len(parts) > 2 {
		keyPart = "-"
		parts = parts[:len(parts)-1]
	}

	var mods events.Modifier
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "c":
			mods |= events.ModCtrl
		case "a":
			mods |= events.ModAlt
		case "s":
			mods |= events.ModShift
		case "m", "d":
			mods |= events.ModMeta
		default:
			return events.Key{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}
	return parseKey(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (events.Key, error) {
	parts := strings.Split(spec, "+")
	keyPart := parts[len(parts)-1]
	// "Ctrl++" binds ctrl+plus
	if keyPart == "" && len(parts) > 2 {
		keyPart = "+"
		parts = parts[:len(parts)-1]
	}

	var mods events.Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := modifierFromName(strings.ToLower(strings.TrimSpace(p)))
		if mod == events.ModNone {
			return events.Key{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods |= mod
	}
	return parseKey(keyPart, mods)
}

func modifierFromName(name string) events.Modifier {
	switch name {
	case "ctrl", "control", "c":
		return events.ModCtrl
	case "alt", "opt", "option", "a":
		return events.ModAlt
	case "shift", "s":
		return events.ModShift
	case "meta", "cmd", "super", "m":
		return events.ModMeta
	default:
		return events.ModNone
	}
}

// parseKey parses a key name or single character with known modifiers.
func parseKey(keyPart string, mods events.Modifier) (events.Key, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return events.Key{}, ErrInvalidSpec
	}

	runes := []rune(keyPart)
	if len(runes) == 1 {
		return normalize(events.Key{Code: events.KeyRune, Rune: runes[0], Mod: mods}), nil
	}

	lower := strings.ToLower(keyPart)
	if code, ok := keyNames[lower]; ok {
		return events.Key{Code: code, Mod: mods}, nil
	}
	if r, ok := runeNames[lower]; ok {
		return normalize(events.Key{Code: events.KeyRune, Rune: r, Mod: mods}), nil
	}
	return events.Key{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// normalize reduces a key to the form bindings are matched on. The rune
// already carries the case, so Shift is dropped from rune keys, and
// Ctrl combinations are reported by terminals with lowercase letters.
func normalize(k events.Key) events.Key {
	if k.Code != events.KeyRune {
		k.Rune = 0
		return k
	}
	k.Mod &^= events.ModShift
	if k.Mod.Has(events.ModCtrl) {
		k.Rune = unicode.ToLower(k.Rune)
	}
	return k
}
