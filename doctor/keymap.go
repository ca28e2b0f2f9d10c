package doctor

import (
	"fmt"

	xhotkey "golang.design/x/hotkey"

	"hark/hotkey"
	"hark/key"
)

// xkeys maps semantic keys onto the OS registration key space.
var xkeys = map[key.Key]xhotkey.Key{
	key.A: xhotkey.KeyA, key.B: xhotkey.KeyB, key.C: xhotkey.KeyC,
	key.D: xhotkey.KeyD, key.E: xhotkey.KeyE, key.F: xhotkey.KeyF,
	key.G: xhotkey.KeyG, key.H: xhotkey.KeyH, key.I: xhotkey.KeyI,
	key.J: xhotkey.KeyJ, key.K: xhotkey.KeyK, key.L: xhotkey.KeyL,
	key.M: xhotkey.KeyM, key.N: xhotkey.KeyN, key.O: xhotkey.KeyO,
	key.P: xhotkey.KeyP, key.Q: xhotkey.KeyQ, key.R: xhotkey.KeyR,
	key.S: xhotkey.KeyS, key.T: xhotkey.KeyT, key.U: xhotkey.KeyU,
	key.V: xhotkey.KeyV, key.W: xhotkey.KeyW, key.X: xhotkey.KeyX,
	key.Y: xhotkey.KeyY, key.Z: xhotkey.KeyZ,

	key.Num0: xhotkey.Key0, key.Num1: xhotkey.Key1, key.Num2: xhotkey.Key2,
	key.Num3: xhotkey.Key3, key.Num4: xhotkey.Key4, key.Num5: xhotkey.Key5,
	key.Num6: xhotkey.Key6, key.Num7: xhotkey.Key7, key.Num8: xhotkey.Key8,
	key.Num9: xhotkey.Key9,

	key.F1: xhotkey.KeyF1, key.F2: xhotkey.KeyF2, key.F3: xhotkey.KeyF3,
	key.F4: xhotkey.KeyF4, key.F5: xhotkey.KeyF5, key.F6: xhotkey.KeyF6,
	key.F7: xhotkey.KeyF7, key.F8: xhotkey.KeyF8, key.F9: xhotkey.KeyF9,
	key.F10: xhotkey.KeyF10, key.F11: xhotkey.KeyF11, key.F12: xhotkey.KeyF12,

	key.Space:  xhotkey.KeySpace,
	key.Enter:  xhotkey.KeyReturn,
	key.Tab:    xhotkey.KeyTab,
	key.Escape: xhotkey.KeyEscape,
}

func xhotkeyFor(b hotkey.Binding) ([]xhotkey.Modifier, xhotkey.Key, error) {
	xk, ok := xkeys[b.Key]
	if !ok {
		return nil, 0, fmt.Errorf("key %s not registrable on this host", b.Key)
	}
	var mods []xhotkey.Modifier
	for _, m := range b.Mods.List() {
		xm, ok := xmods[m]
		if !ok {
			return nil, 0, fmt.Errorf("modifier %s not available on this host", m)
		}
		mods = append(mods, xm)
	}
	return mods, xk, nil
}
