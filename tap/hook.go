package tap

import (
	"sync"

	hook "github.com/robotn/gohook"

	"hark/key"
)

// The hook library runs one process-global event stream, so all
// system-wide handles share a single refcounted pump. The pump rebuilds
// modifier-flag state from raw modifier key transitions and synthesizes
// FlagsChanged events, because the stream reports modifiers as ordinary
// key events.
var (
	hookMu      sync.Mutex
	hookSubs    map[*hookSub]struct{}
	hookRunning bool
)

type hookSub struct {
	emit func(Event)
}

func openHookSource(emit func(Event)) (func(), error) {
	hookMu.Lock()
	defer hookMu.Unlock()

	sub := &hookSub{emit: emit}
	if hookSubs == nil {
		hookSubs = make(map[*hookSub]struct{})
	}
	hookSubs[sub] = struct{}{}

	if !hookRunning {
		hookRunning = true
		ch := hook.Start()
		go pumpHook(ch)
	}

	return func() { closeHookSub(sub) }, nil
}

func closeHookSub(sub *hookSub) {
	hookMu.Lock()
	defer hookMu.Unlock()
	delete(hookSubs, sub)
	if len(hookSubs) == 0 && hookRunning {
		hookRunning = false
		hook.End()
	}
}

func broadcastHook(ev Event) {
	hookMu.Lock()
	subs := make([]*hookSub, 0, len(hookSubs))
	for s := range hookSubs {
		subs = append(subs, s)
	}
	hookMu.Unlock()
	for _, s := range subs {
		s.emit(ev)
	}
}

func pumpHook(ch chan hook.Event) {
	// held tracks modifier keycodes (left and right variants separately)
	// so releasing one of a doubled-up pair keeps the flag set.
	held := make(map[uint16]bool)
	pressed := make(map[uint16]bool)
	var fnHeld bool

	flags := func() key.Flags {
		var s key.ModSet
		for code, down := range held {
			if !down {
				continue
			}
			if m, ok := key.ModifierFromCode(code); ok {
				s = s.With(m)
			}
		}
		f := s.Flags()
		if fnHeld {
			f |= key.FlagFn
		}
		return f
	}

	for e := range ch {
		switch e.Kind {
		case hook.KeyHold:
			// key-repeat; edges are per physical press

		case hook.KeyDown:
			switch {
			case e.Rawcode == key.CodeFn:
				if !fnHeld {
					fnHeld = true
					broadcastHook(Event{Kind: FlagsChanged, Code: e.Rawcode, Flags: flags()})
				}
			case isModifierCode(e.Rawcode):
				if !held[e.Rawcode] {
					held[e.Rawcode] = true
					broadcastHook(Event{Kind: FlagsChanged, Code: e.Rawcode, Flags: flags()})
				}
			default:
				if pressed[e.Rawcode] {
					continue
				}
				pressed[e.Rawcode] = true
				broadcastHook(Event{Kind: KeyDown, Code: e.Rawcode, Flags: flags()})
			}

		case hook.KeyUp:
			switch {
			case e.Rawcode == key.CodeFn:
				if fnHeld {
					fnHeld = false
					broadcastHook(Event{Kind: FlagsChanged, Code: e.Rawcode, Flags: flags()})
				}
			case isModifierCode(e.Rawcode):
				if held[e.Rawcode] {
					held[e.Rawcode] = false
					broadcastHook(Event{Kind: FlagsChanged, Code: e.Rawcode, Flags: flags()})
				}
			default:
				if !pressed[e.Rawcode] {
					continue
				}
				delete(pressed, e.Rawcode)
				broadcastHook(Event{Kind: KeyUp, Code: e.Rawcode, Flags: flags()})
			}
		}
	}
}

func isModifierCode(code uint16) bool {
	_, ok := key.ModifierFromCode(code)
	return ok
}
