package registry

import (
	"sync"
	"testing"
	"time"

	"hark/hotkey"
	"hark/key"
	"hark/permission"
	"hark/recorder"
	"hark/tap"
)

type counter struct {
	mu       sync.Mutex
	pressed  int
	released int
}

func (c *counter) press() func() {
	return func() {
		c.mu.Lock()
		c.pressed++
		c.mu.Unlock()
	}
}

func (c *counter) release() func() {
	return func() {
		c.mu.Lock()
		c.released++
		c.mu.Unlock()
	}
}

func (c *counter) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pressed, c.released
}

func (c *counter) wait(t *testing.T, pressed, released int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if p, r := c.counts(); p == pressed && r == released {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	p, r := c.counts()
	t.Fatalf("counts = %d/%d, want %d/%d", p, r, pressed, released)
}

// settle gives the dispatch goroutine time to drain anything pending.
func settle() { time.Sleep(30 * time.Millisecond) }

func newTestRegistry(t *testing.T) (*Registry, *tap.FakeSource, *tap.Lifecycle) {
	t.Helper()
	src := &tap.FakeSource{}
	life := &tap.Lifecycle{
		Check:         func() error { return nil },
		NewSystemWide: src.Open,
	}
	r := New(life)
	t.Cleanup(r.Close)
	return r, src, life
}

func emitKeyDown(src *tap.FakeSource, k key.Key, mods key.ModSet) {
	code, ok := key.CodeOf(k)
	if !ok {
		panic("no code for " + k.String())
	}
	src.Emit(tap.Event{Kind: tap.KeyDown, Code: code, Flags: mods.Flags()})
}

func emitKeyUp(src *tap.FakeSource, k key.Key, mods key.ModSet) {
	code, _ := key.CodeOf(k)
	src.Emit(tap.Event{Kind: tap.KeyUp, Code: code, Flags: mods.Flags()})
}

func TestPressAndReleaseFireOnce(t *testing.T) {
	r, src, _ := newTestRegistry(t)
	var c counter

	cmd := key.ModSet(key.ModCommand)
	if err := r.Register(hotkey.Binding{Key: key.Space, Mods: cmd}, c.press(), c.release()); err != nil {
		t.Fatal(err)
	}

	// Extra modifier held: configured as ⌘Space, delivered ⌘⇧Space.
	emitKeyDown(src, key.Space, cmd.With(key.ModShift))
	settle()
	if p, rl := c.counts(); p != 0 || rl != 0 {
		t.Fatalf("superset combination fired callbacks: %d/%d", p, rl)
	}

	emitKeyDown(src, key.Space, cmd)
	c.wait(t, 1, 0)
	emitKeyUp(src, key.Space, cmd)
	c.wait(t, 1, 1)
}

func TestRepeatDebounced(t *testing.T) {
	r, src, _ := newTestRegistry(t)
	var c counter

	if err := r.Register(hotkey.Binding{Key: key.A}, c.press(), c.release()); err != nil {
		t.Fatal(err)
	}

	emitKeyDown(src, key.A, 0)
	emitKeyDown(src, key.A, 0) // repeat leak
	emitKeyDown(src, key.A, 0)
	emitKeyUp(src, key.A, 0)
	c.wait(t, 1, 1)
}

func TestBothScopesDeduplicated(t *testing.T) {
	r, src, life := newTestRegistry(t)
	var c counter

	if err := r.Register(hotkey.Binding{Key: key.A}, c.press(), c.release()); err != nil {
		t.Fatal(err)
	}

	// The focused-app path and the system-wide path both observe the same
	// physical press; only one edge pair may come out.
	emitKeyDown(src, key.A, 0)
	code, _ := key.CodeOf(key.A)
	life.Deliver(tap.Event{Kind: tap.KeyDown, Code: code})
	settle()

	emitKeyUp(src, key.A, 0)
	life.Deliver(tap.Event{Kind: tap.KeyUp, Code: code})
	c.wait(t, 1, 1)
}

func TestUpdateSupersedesCleanly(t *testing.T) {
	r, src, _ := newTestRegistry(t)
	var c counter

	a := hotkey.Binding{Key: key.A, Mods: key.ModSet(key.ModOption)}
	b := hotkey.Binding{Key: key.B, Mods: key.ModSet(key.ModOption)}

	if err := r.Register(a, c.press(), c.release()); err != nil {
		t.Fatal(err)
	}
	if err := r.Update(b); err != nil {
		t.Fatal(err)
	}

	if got := r.Binding(); !got.Equal(b) {
		t.Errorf("Binding() = %v, want %v", got, b)
	}
	// Exactly one monitor pair: two in-process installs, two system-wide
	// installs, first pair stopped.
	if src.Starts() != 2 || src.Stops() != 1 {
		t.Errorf("source starts=%d stops=%d, want 2/1", src.Starts(), src.Stops())
	}

	// The old combination is dead the moment Update returns.
	emitKeyDown(src, key.A, key.ModSet(key.ModOption))
	settle()
	if p, _ := c.counts(); p != 0 {
		t.Errorf("superseded binding fired %d times", p)
	}

	emitKeyDown(src, key.B, key.ModSet(key.ModOption))
	c.wait(t, 1, 0)
}

func TestPermissionDeniedDegrades(t *testing.T) {
	src := &tap.FakeSource{}
	denied := true
	life := &tap.Lifecycle{
		Check: func() error {
			if denied {
				return permission.ErrDenied
			}
			return nil
		},
		NewSystemWide: src.Open,
	}
	r := New(life)
	defer r.Close()
	var c counter

	b := hotkey.Binding{Key: key.Space, Mods: key.ModSet(key.ModControl)}
	if err := r.Register(b, c.press(), c.release()); err != nil {
		t.Fatal(err)
	}

	active, reason := r.Active()
	if active {
		t.Fatal("active despite denied permission")
	}
	if reason == "" {
		t.Error("no reason reported for inactive registry")
	}

	// The in-process path still works while degraded.
	code, _ := key.CodeOf(key.Space)
	life.Deliver(tap.Event{Kind: tap.KeyDown, Code: code, Flags: key.ModSet(key.ModControl).Flags()})
	c.wait(t, 1, 0)

	// Host grants the permission; the external signal triggers the retry
	// with the last-known configuration, no manual re-register.
	denied = false
	r.PermissionChanged()

	active, reason = r.Active()
	if !active || reason != "" {
		t.Fatalf("after retry: active=%v reason=%q", active, reason)
	}
	if got := r.Binding(); !got.Equal(b) {
		t.Errorf("retry changed binding to %v", got)
	}

	emitKeyDown(src, key.Space, key.ModSet(key.ModControl))
	c.wait(t, 2, 0)
}

func TestPermissionChangedWithoutRegistration(t *testing.T) {
	r, src, _ := newTestRegistry(t)
	r.PermissionChanged() // nothing registered; must be a no-op
	if src.Starts() != 0 {
		t.Error("retry installed a monitor with no configuration")
	}
}

func TestRegisterRejectsInvalidBinding(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	err := r.Register(hotkey.Binding{}, nil, nil)
	if err == nil {
		t.Error("empty binding accepted")
	}
	err = r.Register(hotkey.Binding{Key: key.Fn, Mods: key.ModSet(key.ModShift)}, nil, nil)
	if err == nil {
		t.Error("fn+modifiers accepted")
	}
}

func TestSubscribeObservesUpdates(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	var mu sync.Mutex
	var seen []hotkey.Binding
	cancel := r.Subscribe(func(b hotkey.Binding) {
		mu.Lock()
		seen = append(seen, b)
		mu.Unlock()
	})

	a := hotkey.Binding{Key: key.A}
	b := hotkey.Binding{Key: key.B}
	r.Register(a, nil, nil)
	r.Update(b)
	cancel()
	r.Update(a)

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || !seen[0].Equal(a) || !seen[1].Equal(b) {
		t.Errorf("observer saw %v", seen)
	}
}

func TestCloseStopsMonitors(t *testing.T) {
	src := &tap.FakeSource{}
	life := &tap.Lifecycle{Check: func() error { return nil }, NewSystemWide: src.Open}
	r := New(life)

	r.Register(hotkey.Binding{Key: key.A}, nil, nil)
	r.Close()
	r.Close() // idempotent

	if life.Active(tap.SystemWide) || life.Active(tap.InProcess) {
		t.Error("monitors still active after Close")
	}
	if err := r.Register(hotkey.Binding{Key: key.B}, nil, nil); err != ErrClosed {
		t.Errorf("Register after Close = %v, want ErrClosed", err)
	}
}

func TestRecordingSessionLeavesMonitorsIntact(t *testing.T) {
	r, _, life := newTestRegistry(t)
	var c counter

	ctrl := key.ModSet(key.ModControl)
	if err := r.Register(hotkey.Binding{Key: key.Space, Mods: ctrl}, c.press(), c.release()); err != nil {
		t.Fatal(err)
	}

	code, _ := key.CodeOf(key.Space)
	press := tap.Event{Kind: tap.KeyDown, Code: code, Flags: ctrl.Flags()}
	release := tap.Event{Kind: tap.KeyUp, Code: code, Flags: ctrl.Flags()}

	life.Deliver(press)
	c.wait(t, 1, 0)
	life.Deliver(release)
	c.wait(t, 1, 1)

	// Opening and cancelling a capture session happens on the recorder's
	// own lifecycle and must not disturb the in-process monitor.
	rec := recorder.New()
	if err := rec.Start(); err != nil {
		t.Fatal(err)
	}
	rec.Cancel()

	if !life.Active(tap.InProcess) {
		t.Fatal("in-process monitor gone after cancelled recording")
	}
	life.Deliver(press)
	c.wait(t, 2, 1)
	life.Deliver(release)
	c.wait(t, 2, 2)
}

func TestLateEventAfterCloseDoesNotPanic(t *testing.T) {
	src := &tap.FakeSource{}
	life := &tap.Lifecycle{Check: func() error { return nil }, NewSystemWide: src.Open}
	r := New(life)

	if err := r.Register(hotkey.Binding{Key: key.A}, nil, nil); err != nil {
		t.Fatal(err)
	}
	r.mu.Lock()
	gen := r.gen
	r.mu.Unlock()
	r.Close()

	// A handler that passed enqueue's guard just before Close still sends
	// on the event channel; the send must land in the buffer, not panic.
	r.events <- event{gen: gen, ev: tap.Event{Kind: tap.KeyDown}}
	r.enqueue(gen, tap.Event{Kind: tap.KeyDown})
}

func TestFnBindingEndToEnd(t *testing.T) {
	r, src, _ := newTestRegistry(t)
	var c counter

	if err := r.Register(hotkey.Binding{Key: key.Fn}, c.press(), c.release()); err != nil {
		t.Fatal(err)
	}

	src.Emit(tap.Event{Kind: tap.FlagsChanged, Flags: key.FlagFn})
	c.wait(t, 1, 0)
	src.Emit(tap.Event{Kind: tap.FlagsChanged, Flags: 0})
	c.wait(t, 1, 1)
}
