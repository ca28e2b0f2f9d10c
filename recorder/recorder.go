// Package recorder implements the interactive capture flow that turns
// "press your shortcut now" into a finished binding.
package recorder

import (
	"errors"
	"sync"

	"hark/hotkey"
	"hark/key"
	"hark/log"
	"hark/tap"
)

// ErrAlreadyRecording is returned by Start while a session is open.
// Rejecting the second start (instead of silently restarting) is what
// keeps a half-open session from leaking its interceptor.
var ErrAlreadyRecording = errors.New("recording session already open")

// Recorder is a one-shot capture session over an in-process interceptor.
// All session state is guarded by one mutex; event callbacks and UI calls
// may arrive on different goroutines.
type Recorder struct {
	// OnChange, when set before Start, runs after every visible change to
	// the live snapshot so the UI can refresh the displayed combination.
	OnChange func()

	life *tap.Lifecycle

	mu        sync.Mutex
	recording bool
	mods      key.ModSet
	captured  key.Key
	handle    *tap.Handle

	done chan hotkey.Binding
}

// New builds a recorder. The recorder owns a private lifecycle for its
// interceptor: capturing must never replace a monitor someone else holds
// on a shared lifecycle. Recording is in-process only; it never needs
// the system-wide permission.
func New() *Recorder {
	return &Recorder{
		life: &tap.Lifecycle{},
		done: make(chan hotkey.Binding, 1),
	}
}

// Deliver feeds one application key event to the open session. Returns
// false when no session is open, so callers can chain on to whatever
// interceptor handles events while idle.
func (r *Recorder) Deliver(ev tap.Event) bool {
	return r.life.Deliver(ev)
}

// Done delivers the finished binding of each completed session. Nothing
// is ever delivered for a cancelled session.
func (r *Recorder) Done() <-chan hotkey.Binding {
	return r.done
}

// Start opens a capture session: resets the snapshot and installs a
// consuming in-process interceptor. Valid only while idle.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		log.Warn("recorder: start while already recording")
		return ErrAlreadyRecording
	}
	r.recording = true
	r.mods = 0
	r.captured = key.None
	r.mu.Unlock()

	h, err := r.life.Start(tap.InProcess, r.handleEvent)
	if err != nil {
		r.mu.Lock()
		r.recording = false
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	r.handle = h
	r.mu.Unlock()
	return nil
}

// Recording reports whether a session is open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Snapshot returns the live accumulated modifiers and captured key for
// display. The modifier set always mirrors exactly what is held right
// now, not a running union.
func (r *Recorder) Snapshot() (key.ModSet, key.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mods, r.captured
}

// Cancel closes an open session without emitting anything. Idempotent;
// owners (a dismissed capture view) must always call it on teardown.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return
	}
	r.recording = false
	h := r.handle
	r.handle = nil
	r.mu.Unlock()

	r.life.Stop(h)
}

// handleEvent consumes every key event while the session is open so the
// captured shortcut does not also trigger normal typing side effects.
func (r *Recorder) handleEvent(ev tap.Event) bool {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return false
	}

	switch ev.Kind {
	case tap.FlagsChanged:
		// fn never generates a key-down of its own; the flag setting with
		// nothing else held is the whole capture.
		if ev.Flags.Fn() && key.ExtractModifiers(ev.Flags).Empty() {
			r.captured = key.Fn
			r.recording = false
			h := r.handle
			r.handle = nil
			r.mu.Unlock()
			r.complete(h, hotkey.Binding{Key: key.Fn})
			return true
		}
		// Replace, never union: the display tracks what is held now.
		mods := key.ExtractModifiers(ev.Flags)
		changed := mods != r.mods
		r.mods = mods
		onChange := r.OnChange
		r.mu.Unlock()
		if changed && onChange != nil {
			onChange()
		}
		return true

	case tap.KeyDown:
		k, ok := key.Translate(ev.Code)
		if !ok {
			r.mu.Unlock()
			return true
		}
		if k == key.Escape && r.mods.Empty() {
			// Bare Escape is the cancel gesture, not a capturable key.
			r.recording = false
			h := r.handle
			r.handle = nil
			r.mu.Unlock()
			r.life.Stop(h)
			return true
		}
		r.captured = k
		r.recording = false
		h := r.handle
		r.handle = nil
		b := hotkey.Binding{Key: k, Mods: r.mods}
		onChange := r.OnChange
		r.mu.Unlock()

		if onChange != nil {
			onChange()
		}
		r.complete(h, b)
		return true

	default:
		r.mu.Unlock()
		return true
	}
}

// complete tears the interceptor down and then delivers the finished
// binding. Deferring the delivery to its own goroutine guarantees the
// interceptor is fully detached before anything downstream reacts, which
// is what prevents re-entrant capture.
func (r *Recorder) complete(h *tap.Handle, b hotkey.Binding) {
	go func() {
		r.life.Stop(h)
		r.done <- b
	}()
}
