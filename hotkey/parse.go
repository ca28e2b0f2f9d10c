package hotkey

import (
	"fmt"
	"strings"

	"hark/key"
)

// Parse converts a textual combination like "cmd+shift+space", "option+p"
// or just "fn" into a Binding. The key is the last "+"-separated part;
// everything before it must be a modifier name.
func Parse(spec string) (Binding, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(spec)), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Binding{}, fmt.Errorf("empty hotkey spec %q", spec)
	}

	k, ok := key.FromName(parts[len(parts)-1])
	if !ok {
		return Binding{}, fmt.Errorf("unsupported key: %s", parts[len(parts)-1])
	}

	var mods key.ModSet
	for _, part := range parts[:len(parts)-1] {
		m, ok := key.ModifierFromName(part)
		if !ok {
			return Binding{}, fmt.Errorf("unsupported modifier: %s", part)
		}
		mods = mods.With(m)
	}

	b := Binding{Key: k, Mods: mods}
	if err := b.Validate(); err != nil {
		return Binding{}, err
	}
	return b, nil
}

// Spec returns the stable textual form Parse accepts, for settings files
// and flags.
func (b Binding) Spec() string {
	parts := make([]string, 0, 5)
	for _, m := range b.Mods.List() {
		parts = append(parts, m.String())
	}
	parts = append(parts, b.Key.String())
	return strings.Join(parts, "+")
}
