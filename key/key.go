// Package key translates host keyboard hardware codes and modifier flag
// bitsets into semantic keys and modifier sets. Everything in this package
// is pure and safe to call from the event-delivery thread.
package key

// Key identifies a keyboard key independently of hardware scan codes.
// The zero value None means "no key" / unmapped.
type Key uint8

const (
	None Key = iota

	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z

	Num0
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9

	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	Space
	Enter
	Tab
	Escape

	// Fn and Command are shortcuts in their own right ("hold fn to talk",
	// "hold command to talk"). The host never emits a discrete key-down for
	// fn, and bare command is only distinguishable from command-as-modifier
	// by watching flag transitions, so these carry dedicated cases instead
	// of being folded into the modifier set.
	Fn
	Command
)

var keyNames = map[Key]string{
	A: "a", B: "b", C: "c", D: "d", E: "e", F: "f", G: "g", H: "h",
	I: "i", J: "j", K: "k", L: "l", M: "m", N: "n", O: "o", P: "p",
	Q: "q", R: "r", S: "s", T: "t", U: "u", V: "v", W: "w", X: "x",
	Y: "y", Z: "z",
	Num0: "0", Num1: "1", Num2: "2", Num3: "3", Num4: "4",
	Num5: "5", Num6: "6", Num7: "7", Num8: "8", Num9: "9",
	F1: "f1", F2: "f2", F3: "f3", F4: "f4", F5: "f5", F6: "f6",
	F7: "f7", F8: "f8", F9: "f9", F10: "f10", F11: "f11", F12: "f12",
	Space: "space", Enter: "enter", Tab: "tab", Escape: "escape",
	Fn: "fn", Command: "command",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, n := range keyNames {
		m[n] = k
	}
	return m
}()

// String returns the stable lowercase name of the key ("a", "f5", "space").
// None stringifies to the empty string.
func (k Key) String() string {
	return keyNames[k]
}

// FromName maps a stable key name back to its Key. The second return is
// false for unknown names.
func FromName(name string) (Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}

// Modifier returns true for the keys that never complete an ordinary
// key+modifiers combination on their own key-down event.
func (k Key) Modifier() bool {
	return k == Fn || k == Command
}
