package key

// Flags is the host's modifier-flag bitset as delivered on every input
// event. Bit positions follow the host event flag masks.
type Flags uint64

const (
	FlagShift   Flags = 1 << 17
	FlagControl Flags = 1 << 18
	FlagOption  Flags = 1 << 19
	FlagCommand Flags = 1 << 20
	FlagFn      Flags = 1 << 23
)

// Modifier keycodes, used to rebuild flag state from raw key transitions
// on hosts that report modifiers as ordinary key events.
const (
	CodeCommand      uint16 = 55
	CodeRightCommand uint16 = 54
	CodeShift        uint16 = 56
	CodeRightShift   uint16 = 60
	CodeOption       uint16 = 58
	CodeRightOption  uint16 = 61
	CodeControl      uint16 = 59
	CodeRightControl uint16 = 62
	CodeFn           uint16 = 63
)

// ModifierFromCode maps a modifier keycode (left or right variant) to its
// Modifier. Fn is not a Modifier; callers check CodeFn separately.
func ModifierFromCode(code uint16) (Modifier, bool) {
	switch code {
	case CodeCommand, CodeRightCommand:
		return ModCommand, true
	case CodeShift, CodeRightShift:
		return ModShift, true
	case CodeOption, CodeRightOption:
		return ModOption, true
	case CodeControl, CodeRightControl:
		return ModControl, true
	}
	return 0, false
}

// Flag returns the flag bit the modifier sets.
func (m Modifier) Flag() Flags {
	switch m {
	case ModShift:
		return FlagShift
	case ModControl:
		return FlagControl
	case ModOption:
		return FlagOption
	case ModCommand:
		return FlagCommand
	}
	return 0
}

// Flags converts the whole set to its flag bits.
func (s ModSet) Flags() Flags {
	var f Flags
	for _, m := range s.List() {
		f |= m.Flag()
	}
	return f
}

// ExtractModifiers tests the four modifier bits independently and returns
// the set currently held. It is a live snapshot, never a latch.
func ExtractModifiers(f Flags) ModSet {
	var s ModSet
	if f&FlagShift != 0 {
		s = s.With(ModShift)
	}
	if f&FlagControl != 0 {
		s = s.With(ModControl)
	}
	if f&FlagOption != 0 {
		s = s.With(ModOption)
	}
	if f&FlagCommand != 0 {
		s = s.With(ModCommand)
	}
	return s
}

// Fn reports whether the function flag is set.
func (f Flags) Fn() bool {
	return f&FlagFn != 0
}
