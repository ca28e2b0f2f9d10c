//go:build !darwin && !windows

package doctor

import (
	xhotkey "golang.design/x/hotkey"

	"hark/key"
)

// X11 modifier masks: option is Mod1 (alt), command is Mod4 (super).
var xmods = map[key.Modifier]xhotkey.Modifier{
	key.ModControl: xhotkey.ModCtrl,
	key.ModShift:   xhotkey.ModShift,
	key.ModOption:  xhotkey.Mod1,
	key.ModCommand: xhotkey.Mod4,
}
