// Package tap manages keyboard event interceptors. A Lifecycle owns at
// most one interceptor per scope: the system-wide tap observes input no
// matter which application is focused, the in-process tap sees only
// events the embedding application feeds it via Deliver.
package tap

import (
	"fmt"
	"sync"
	"sync/atomic"

	"hark/key"
	"hark/permission"
)

// Kind classifies a raw input event.
type Kind uint8

const (
	// KeyDown is a discrete press of a non-modifier key.
	KeyDown Kind = iota + 1
	// KeyUp is the matching release.
	KeyUp
	// FlagsChanged reports a modifier-flag transition. Modifier-only
	// shortcuts (fn, bare command) exist solely in these events.
	FlagsChanged
)

// Event is one raw input event: the hardware keycode plus the full
// modifier-flag snapshot at the time of the event.
type Event struct {
	Kind  Kind
	Code  uint16
	Flags key.Flags
}

// Scope selects which interceptor a handle controls.
type Scope uint8

const (
	SystemWide Scope = iota
	InProcess
)

func (s Scope) String() string {
	if s == SystemWide {
		return "system-wide"
	}
	return "in-process"
}

// Handler receives events on the delivery goroutine. The return value
// asks the source to consume the event; it is honored only for the
// in-process scope — system-wide taps observe, never swallow.
type Handler func(Event) (consume bool)

// OpenSource installs a system-wide event source and streams events into
// emit until the returned stop function runs. Tests substitute fakes.
type OpenSource func(emit func(Event)) (stop func(), err error)

// Lifecycle owns one handle per scope and guarantees stop-before-start:
// starting a scope that already has a live handle tears the old one down
// first, so a reconfiguration can never leak or double-install a tap.
type Lifecycle struct {
	// Check gates the system-wide scope. Nil means permission.Check.
	Check func() error
	// NewSystemWide opens the raw event source. Nil means the hook-based
	// default in hook.go.
	NewSystemWide OpenSource

	mu      sync.Mutex
	handles map[Scope]*Handle
}

// Handle is the opaque token for one active interceptor. It is owned by
// the Lifecycle that created it.
type Handle struct {
	life    *Lifecycle
	scope   Scope
	fn      Handler
	stopSrc func()
	stopped atomic.Bool
}

// Start installs an interceptor for the given scope, replacing any prior
// one. A system-wide start fails with an error wrapping
// permission.ErrDenied when the host has not granted raw input access.
func (l *Lifecycle) Start(scope Scope, fn Handler) (*Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prev := l.handles[scope]; prev != nil {
		l.stopLocked(prev)
	}

	h := &Handle{life: l, scope: scope, fn: fn}
	if scope == SystemWide {
		check := l.Check
		if check == nil {
			check = permission.Check
		}
		if err := check(); err != nil {
			return nil, fmt.Errorf("%s tap: %w", scope, err)
		}
		open := l.NewSystemWide
		if open == nil {
			open = openHookSource
		}
		stop, err := open(h.observe)
		if err != nil {
			return nil, fmt.Errorf("%s tap: %w", scope, err)
		}
		h.stopSrc = stop
	}

	if l.handles == nil {
		l.handles = make(map[Scope]*Handle)
	}
	l.handles[scope] = h
	return h, nil
}

// Stop tears the handle down. Idempotent: stopping an already-stopped
// handle is a no-op.
func (l *Lifecycle) Stop(h *Handle) {
	if h == nil {
		return
	}
	l.mu.Lock()
	l.stopLocked(h)
	l.mu.Unlock()
}

func (l *Lifecycle) stopLocked(h *Handle) {
	if !h.stopped.CompareAndSwap(false, true) {
		return
	}
	if l.handles[h.scope] == h {
		delete(l.handles, h.scope)
	}
	if h.stopSrc != nil {
		h.stopSrc()
	}
}

// StopAll tears down every live handle.
func (l *Lifecycle) StopAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, h := range l.handles {
		l.stopLocked(h)
	}
}

// Active reports whether a handle is live for the scope.
func (l *Lifecycle) Active(scope Scope) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handles[scope] != nil
}

// Deliver feeds one event to the in-process interceptor, if any, and
// reports whether the handler consumed it. The embedding UI calls this
// from its own key-event path; a consumed event should not be processed
// further by the application.
func (l *Lifecycle) Deliver(ev Event) bool {
	l.mu.Lock()
	h := l.handles[InProcess]
	l.mu.Unlock()
	if h == nil || h.stopped.Load() {
		return false
	}
	return h.fn(ev)
}

// observe is the system-wide delivery path. Consumption is ignored by
// contract.
func (h *Handle) observe(ev Event) {
	if h.stopped.Load() {
		return
	}
	h.fn(ev)
}
