// Package hotkey defines shortcut bindings and decides when a stream of
// raw input events satisfies one.
package hotkey

import (
	"fmt"
	"strings"

	"hark/key"
)

// Binding is one saved shortcut: exactly one key plus a modifier set.
// Modifier-only shortcuts (hold fn, hold bare command) are expressed as
// Key==key.Fn / key.Command with an empty set, never as a set with no
// key. Bindings are values: reconfiguration replaces the whole Binding,
// so holders compare old and new with Equal.
type Binding struct {
	Key   key.Key
	Mods  key.ModSet
	Label string
}

// ModifierOnly reports whether the binding is one of the flag-transition
// shortcuts that never produce a key-down of their own.
func (b Binding) ModifierOnly() bool {
	return b.Key.Modifier() && b.Mods.Empty()
}

// Validate rejects malformed bindings before they reach a monitor.
func (b Binding) Validate() error {
	if b.Key == key.None {
		return fmt.Errorf("binding %q: no key", b.Label)
	}
	if b.Key.Modifier() && !b.Mods.Empty() {
		return fmt.Errorf("binding %q: %s cannot combine with modifiers", b.Label, b.Key)
	}
	return nil
}

// Equal compares by key and modifier set; the label is display-only.
func (b Binding) Equal(o Binding) bool {
	return b.Key == o.Key && b.Mods == o.Mods
}

// Display renders the binding for humans: "⌘Space", "⌥⇧p", "fn".
func (b Binding) Display() string {
	name := b.Key.String()
	if len(name) == 1 {
		name = strings.ToUpper(name)
	} else if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	if b.ModifierOnly() {
		return b.Key.String()
	}
	return b.Mods.Symbols() + name
}

func (b Binding) String() string {
	if b.Label != "" {
		return b.Label
	}
	return b.Display()
}
