package input

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/hermes/internal/event/events"
)

// chord is the comparable part of a key event.
type chord struct {
	code events.KeyCode
	r    rune
	mod  events.Modifier
}

func chordOf(k events.Key) chord {
	k = normalize(k)
	return chord{code: k.Code, r: k.Rune, mod: k.Mod}
}

// Binding is one key-to-command mapping.
type Binding struct {
	// Keys is the specification the binding was created from.
	Keys string

	// Command is the console line run when the key is pressed.
	Command string
}

// Keymap maps keys to console commands.
type Keymap struct {
	bindings map[chord]Binding
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[chord]Binding)}
}

// Unbound is the command that leaves a key unbound in KeymapFromMap.
const Unbound = "none"

// KeymapFromMap builds a keymap from spec to command pairs, as found in
// the keys section of the config. Keys mapped to Unbound are skipped. All
// invalid entries are reported.
func KeymapFromMap(m map[string]string) (*Keymap, error) {
	km := NewKeymap()
	var errs []error
	for spec, command := range m {
		if strings.TrimSpace(command) == Unbound {
			if _, err := ParseKey(spec); err != nil {
				errs = append(errs, fmt.Errorf("binding %q: %w", spec, err))
			}
			continue
		}
		if err := km.Bind(spec, command); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return km, nil
}

// Bind maps the key described by spec to command, replacing any previous
// binding of the same key.
func (km *Keymap) Bind(spec, command string) error {
	k, err := ParseKey(spec)
	if err != nil {
		return fmt.Errorf("binding %q: %w", spec, err)
	}
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("binding %q: empty command", spec)
	}
	km.bindings[chordOf(k)] = Binding{Keys: spec, Command: command}
	return nil
}

// Unbind removes the binding for spec. Returns false if there was none.
func (km *Keymap) Unbind(spec string) bool {
	k, err := ParseKey(spec)
	if err != nil {
		return false
	}
	c := chordOf(k)
	if _, ok := km.bindings[c]; !ok {
		return false
	}
	delete(km.bindings, c)
	return true
}

// Lookup returns the command bound to k.
func (km *Keymap) Lookup(k events.Key) (string, bool) {
	b, ok := km.bindings[chordOf(k)]
	return b.Command, ok
}

// Len returns the number of bindings.
func (km *Keymap) Len() int {
	return len(km.bindings)
}

// Bindings returns all bindings sorted by key specification.
func (km *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(km.bindings))
	for _, b := range km.bindings {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Binding) int {
		return strings.Compare(a.Keys, b.Keys)
	})
	return out
}
