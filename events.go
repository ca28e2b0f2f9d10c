package main

import (
	"hark/hotkey"
	"hark/key"
)

// EventSink abstracts the display layer so the Bubble Tea TUI and the
// headless console mode receive the same subsystem events.
type EventSink interface {
	HotkeyPressed()
	HotkeyReleased()
	StatusChanged(b hotkey.Binding, active bool, reason string)
	CaptureChanged(mods key.ModSet, captured key.Key)
	CaptureDone(b hotkey.Binding, conflicts []string)
	Notice(text string)
}
