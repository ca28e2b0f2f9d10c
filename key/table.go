package key

// Hardware codes are the host's virtual keycodes (ANSI layout). The same
// table serves both the interactive recorder and the production matcher;
// keeping a single copy is what guarantees they agree on every key.
var keyCodes = map[uint16]Key{
	0:  A,
	1:  S,
	2:  D,
	3:  F,
	4:  H,
	5:  G,
	6:  Z,
	7:  X,
	8:  C,
	9:  V,
	11: B,
	12: Q,
	13: W,
	14: E,
	15: R,
	16: Y,
	17: T,
	18: Num1,
	19: Num2,
	20: Num3,
	21: Num4,
	22: Num6,
	23: Num5,
	25: Num9,
	26: Num7,
	28: Num8,
	29: Num0,
	31: O,
	32: U,
	34: I,
	35: P,
	36: Enter,
	37: L,
	38: J,
	40: K,
	45: N,
	46: M,
	48: Tab,
	49: Space,
	53: Escape,

	96:  F5,
	97:  F6,
	98:  F7,
	99:  F3,
	100: F8,
	101: F9,
	103: F11,
	109: F10,
	111: F12,
	118: F4,
	120: F2,
	122: F1,
}

var codesByKey = func() map[Key]uint16 {
	m := make(map[Key]uint16, len(keyCodes)+2)
	for code, k := range keyCodes {
		m[k] = code
	}
	m[Command] = CodeCommand
	m[Fn] = CodeFn
	return m
}()

// Translate maps a hardware keycode to its semantic key. Unmapped codes
// return (None, false); that is not an error, the event is simply not a
// key this subsystem cares about.
func Translate(code uint16) (Key, bool) {
	k, ok := keyCodes[code]
	return k, ok
}

// CodeOf is the reverse of Translate. Fn and Command resolve to their
// modifier keycodes even though Translate never produces them (they are
// flag-transition keys, not key-down keys).
func CodeOf(k Key) (uint16, bool) {
	code, ok := codesByKey[k]
	return code, ok
}
