//go:build darwin

package doctor

import (
	xhotkey "golang.design/x/hotkey"

	"hark/key"
)

var xmods = map[key.Modifier]xhotkey.Modifier{
	key.ModControl: xhotkey.ModCtrl,
	key.ModShift:   xhotkey.ModShift,
	key.ModOption:  xhotkey.ModOption,
	key.ModCommand: xhotkey.ModCmd,
}
