package key

import "strings"

// Modifier is one of the four combining keys. Values are single bits so a
// ModSet is a plain bitset and exact-set comparison is ==.
type Modifier uint8

const (
	ModControl Modifier = 1 << iota
	ModOption
	ModShift
	ModCommand
)

// displayOrder fixes how combinations render: ⌃ ⌥ ⇧ ⌘, the host's own
// convention. Matching never depends on order.
var displayOrder = [...]Modifier{ModControl, ModOption, ModShift, ModCommand}

var modSymbols = map[Modifier]string{
	ModControl: "⌃",
	ModOption:  "⌥",
	ModShift:   "⇧",
	ModCommand: "⌘",
}

var modNames = map[Modifier]string{
	ModControl: "ctrl",
	ModOption:  "option",
	ModShift:   "shift",
	ModCommand: "cmd",
}

// Symbol returns the one-rune display glyph for the modifier.
func (m Modifier) Symbol() string {
	return modSymbols[m]
}

// String returns the stable lowercase name ("ctrl", "option", "shift", "cmd").
func (m Modifier) String() string {
	return modNames[m]
}

// ModifierFromName resolves the names accepted in binding specs.
func ModifierFromName(name string) (Modifier, bool) {
	switch name {
	case "ctrl", "control":
		return ModControl, true
	case "option", "alt", "opt":
		return ModOption, true
	case "shift":
		return ModShift, true
	case "cmd", "command", "super", "win":
		return ModCommand, true
	}
	return 0, false
}

// ModSet is a set of modifiers. The zero value is the empty set.
type ModSet uint8

// With returns the set with m added.
func (s ModSet) With(m Modifier) ModSet {
	return s | ModSet(m)
}

// Without returns the set with m removed.
func (s ModSet) Without(m Modifier) ModSet {
	return s &^ ModSet(m)
}

// Has reports whether m is in the set.
func (s ModSet) Has(m Modifier) bool {
	return s&ModSet(m) != 0
}

// Empty reports whether no modifier is held.
func (s ModSet) Empty() bool {
	return s == 0
}

// List returns the members in display order.
func (s ModSet) List() []Modifier {
	var out []Modifier
	for _, m := range displayOrder {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Symbols renders the set as concatenated glyphs ("⌥⇧").
func (s ModSet) Symbols() string {
	var b strings.Builder
	for _, m := range s.List() {
		b.WriteString(m.Symbol())
	}
	return b.String()
}

// String renders the set as "+"-joined names ("ctrl+shift").
func (s ModSet) String() string {
	names := make([]string, 0, 4)
	for _, m := range s.List() {
		names = append(names, m.String())
	}
	return strings.Join(names, "+")
}
