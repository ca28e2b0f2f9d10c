package hotkey

import (
	"hark/key"

	"hark/tap"
)

// Matches reports whether a live (key, modifiers) pair exactly satisfies
// the binding. The comparison is strict set equality: one extra held
// modifier makes the combination a different shortcut, so Cmd+Shift+Space
// never fires a binding saved as Cmd+Space.
//
// Modifier-only bindings (fn, bare command) are driven by flag
// transitions over time, not by a single event; for those this always
// returns false and Tracker is the authority.
func Matches(liveKey key.Key, liveMods key.ModSet, b Binding) bool {
	if b.ModifierOnly() {
		return false
	}
	return liveKey == b.Key && liveMods == b.Mods
}

// Edge is the outcome of feeding one event to a Tracker.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgePressed
	EdgeReleased
)

// Tracker turns a raw event stream into press/release edges for one
// binding. It carries the state a single-event predicate cannot: whether
// the combination is currently held, and for bare command, whether any
// other key arrived during the hold. Trackers are confined to one
// goroutine; feed each instance from a single delivery path.
type Tracker struct {
	b Binding

	held bool // ordinary binding currently satisfied

	fnHeld bool

	cmdHeld    bool
	cmdSpoiled bool
}

// NewTracker builds a tracker for the binding.
func NewTracker(b Binding) *Tracker {
	return &Tracker{b: b}
}

// Binding returns the tracked binding.
func (t *Tracker) Binding() Binding {
	return t.b
}

// Feed consumes one event and reports the resulting edge, if any. Each
// physical press yields exactly one EdgePressed and one EdgeReleased;
// key-repeat and redundant flag reports yield EdgeNone.
func (t *Tracker) Feed(ev tap.Event) Edge {
	switch {
	case t.b.Key == key.Fn && t.b.Mods.Empty():
		return t.feedFn(ev)
	case t.b.Key == key.Command && t.b.Mods.Empty():
		return t.feedCommand(ev)
	default:
		return t.feedOrdinary(ev)
	}
}

func (t *Tracker) feedOrdinary(ev tap.Event) Edge {
	switch ev.Kind {
	case tap.KeyDown:
		k, ok := key.Translate(ev.Code)
		if !ok || t.held {
			return EdgeNone
		}
		if Matches(k, key.ExtractModifiers(ev.Flags), t.b) {
			t.held = true
			return EdgePressed
		}
	case tap.KeyUp:
		if !t.held {
			return EdgeNone
		}
		if k, ok := key.Translate(ev.Code); ok && k == t.b.Key {
			t.held = false
			return EdgeReleased
		}
	case tap.FlagsChanged:
		// A tracked modifier clearing (or an extra one appearing) ends
		// the hold even though the key itself is still down.
		if t.held && key.ExtractModifiers(ev.Flags) != t.b.Mods {
			t.held = false
			return EdgeReleased
		}
	}
	return EdgeNone
}

// The host never emits a discrete key-down for fn, so the shortcut is the
// function flag itself: press on set, release on clear.
func (t *Tracker) feedFn(ev tap.Event) Edge {
	if ev.Kind != tap.FlagsChanged {
		return EdgeNone
	}
	fn := ev.Flags.Fn()
	switch {
	case fn && !t.fnHeld:
		t.fnHeld = true
		return EdgePressed
	case !fn && t.fnHeld:
		t.fnHeld = false
		return EdgeReleased
	}
	return EdgeNone
}

// Bare command is ambiguous until the hold ends: command may be the whole
// shortcut, or a modifier for a key still to come. The hold starts
// optimistically on the flag setting alone; any key-down (or extra
// modifier) during the hold disqualifies this interpretation and ends the
// edge pair early, with nothing more until the flag clears.
func (t *Tracker) feedCommand(ev tap.Event) Edge {
	switch ev.Kind {
	case tap.FlagsChanged:
		mods := key.ExtractModifiers(ev.Flags)
		cmdAlone := mods == key.ModSet(key.ModCommand)
		switch {
		case !t.cmdHeld && cmdAlone:
			t.cmdHeld = true
			t.cmdSpoiled = false
			return EdgePressed
		case t.cmdHeld && !mods.Has(key.ModCommand):
			t.cmdHeld = false
			if t.cmdSpoiled {
				return EdgeNone
			}
			return EdgeReleased
		case t.cmdHeld && !cmdAlone && !t.cmdSpoiled:
			t.cmdSpoiled = true
			return EdgeReleased
		}
	case tap.KeyDown:
		if t.cmdHeld && !t.cmdSpoiled {
			t.cmdSpoiled = true
			return EdgeReleased
		}
	}
	return EdgeNone
}
