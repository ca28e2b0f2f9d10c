package hotkey

import "hark/key"

// reserved is the fixed table of host shortcuts a user binding can shadow.
// The list is advisory: FindConflicts labels overlaps for the UI, it never
// blocks saving.
var reserved = []Binding{
	{Key: key.Space, Mods: key.ModSet(key.ModCommand), Label: "Spotlight search"},
	{Key: key.Tab, Mods: key.ModSet(key.ModCommand), Label: "Application switcher"},
	{Key: key.W, Mods: key.ModSet(key.ModCommand), Label: "Close window"},
	{Key: key.Q, Mods: key.ModSet(key.ModCommand), Label: "Quit application"},
	{Key: key.H, Mods: key.ModSet(key.ModCommand), Label: "Hide application"},
	{Key: key.M, Mods: key.ModSet(key.ModCommand), Label: "Minimize window"},
	{Key: key.Escape, Mods: key.ModSet(key.ModCommand).With(key.ModOption), Label: "Force quit"},
	{Key: key.Q, Mods: key.ModSet(key.ModCommand).With(key.ModControl), Label: "Lock screen"},
	{Key: key.Num3, Mods: key.ModSet(key.ModCommand).With(key.ModShift), Label: "Screenshot"},
	{Key: key.Num4, Mods: key.ModSet(key.ModCommand).With(key.ModShift), Label: "Screenshot selection"},
	{Key: key.Space, Mods: key.ModSet(key.ModControl), Label: "Input source switch"},
}

// FindConflicts returns the labels of every reserved shortcut equal to b.
// Equality is the same exact key+modifier-set rule the matcher uses, so a
// binding that merely shares some modifiers with a reserved entry is not a
// conflict.
func FindConflicts(b Binding) []string {
	var labels []string
	for _, r := range reserved {
		if b.Equal(r) {
			labels = append(labels, r.Label)
		}
	}
	return labels
}
