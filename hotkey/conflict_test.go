package hotkey

import (
	"testing"

	"hark/key"
)

func TestFindConflictsExactMatch(t *testing.T) {
	got := FindConflicts(Binding{Key: key.Space, Mods: key.ModSet(key.ModCommand)})
	if len(got) != 1 || got[0] != "Spotlight search" {
		t.Errorf("FindConflicts(⌘Space) = %v", got)
	}
}

func TestFindConflictsSharedModifiersOnly(t *testing.T) {
	// Shares ⌘ with several reserved entries but equals none of them.
	got := FindConflicts(Binding{Key: key.Space, Mods: key.ModSet(key.ModCommand).With(key.ModShift)})
	if len(got) != 0 {
		t.Errorf("FindConflicts(⌘⇧Space) = %v, want none", got)
	}
}

func TestFindConflictsSharedKeyOnly(t *testing.T) {
	got := FindConflicts(Binding{Key: key.Tab, Mods: key.ModSet(key.ModOption)})
	if len(got) != 0 {
		t.Errorf("FindConflicts(⌥Tab) = %v, want none", got)
	}
}

func TestFindConflictsModifierOnlyBindings(t *testing.T) {
	for _, b := range []Binding{{Key: key.Fn}, {Key: key.Command}} {
		if got := FindConflicts(b); len(got) != 0 {
			t.Errorf("FindConflicts(%v) = %v, want none", b, got)
		}
	}
}

func TestReservedTableIsValid(t *testing.T) {
	for _, r := range reserved {
		if err := r.Validate(); err != nil {
			t.Errorf("reserved entry %q invalid: %v", r.Label, err)
		}
		if r.Label == "" {
			t.Errorf("reserved entry %+v has no label", r)
		}
	}
}
