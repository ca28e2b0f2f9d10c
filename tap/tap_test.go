package tap

import (
	"errors"
	"testing"

	"hark/key"
	"hark/permission"
)

func grantAll() error { return nil }

func TestStartReplacesPriorHandle(t *testing.T) {
	src := &FakeSource{}
	life := &Lifecycle{Check: grantAll, NewSystemWide: src.Open}

	var first, second int
	h1, err := life.Start(SystemWide, func(Event) bool { first++; return false })
	if err != nil {
		t.Fatal(err)
	}
	h2, err := life.Start(SystemWide, func(Event) bool { second++; return false })
	if err != nil {
		t.Fatal(err)
	}

	if src.Starts() != 2 || src.Stops() != 1 {
		t.Errorf("starts=%d stops=%d, want 2/1", src.Starts(), src.Stops())
	}

	src.Emit(Event{Kind: KeyDown, Code: 49})
	if first != 0 {
		t.Errorf("superseded handler received %d events", first)
	}
	if second != 1 {
		t.Errorf("live handler received %d events, want 1", second)
	}

	life.Stop(h2)
	life.Stop(h1) // already replaced; must be a no-op
	if src.Stops() != 2 {
		t.Errorf("stops=%d, want 2", src.Stops())
	}
}

func TestStopIdempotent(t *testing.T) {
	src := &FakeSource{}
	life := &Lifecycle{Check: grantAll, NewSystemWide: src.Open}

	h, err := life.Start(SystemWide, func(Event) bool { return false })
	if err != nil {
		t.Fatal(err)
	}
	life.Stop(h)
	life.Stop(h)
	life.Stop(nil)
	if src.Stops() != 1 {
		t.Errorf("stops=%d, want 1", src.Stops())
	}
	if life.Active(SystemWide) {
		t.Error("scope still active after stop")
	}
}

func TestNoEventsAfterStop(t *testing.T) {
	src := &FakeSource{}
	life := &Lifecycle{Check: grantAll, NewSystemWide: src.Open}

	count := 0
	h, err := life.Start(SystemWide, func(Event) bool { count++; return false })
	if err != nil {
		t.Fatal(err)
	}
	src.Emit(Event{Kind: KeyDown, Code: 0})
	life.Stop(h)
	src.Emit(Event{Kind: KeyDown, Code: 0})
	if count != 1 {
		t.Errorf("count=%d, want 1", count)
	}
}

func TestPermissionDenied(t *testing.T) {
	src := &FakeSource{}
	life := &Lifecycle{
		Check:         func() error { return permission.ErrDenied },
		NewSystemWide: src.Open,
	}

	_, err := life.Start(SystemWide, func(Event) bool { return false })
	if !errors.Is(err, permission.ErrDenied) {
		t.Fatalf("err = %v, want ErrDenied", err)
	}
	if src.Starts() != 0 {
		t.Error("source opened despite denied permission")
	}
	if life.Active(SystemWide) {
		t.Error("scope active despite denied permission")
	}
}

func TestInProcessDeliverAndConsume(t *testing.T) {
	life := &Lifecycle{Check: grantAll}

	h, err := life.Start(InProcess, func(ev Event) bool {
		return ev.Kind == KeyDown // consume key-downs only
	})
	if err != nil {
		t.Fatal(err)
	}

	if !life.Deliver(Event{Kind: KeyDown, Code: 49}) {
		t.Error("key-down not consumed")
	}
	if life.Deliver(Event{Kind: FlagsChanged, Flags: key.FlagShift}) {
		t.Error("flags-changed consumed")
	}

	life.Stop(h)
	if life.Deliver(Event{Kind: KeyDown, Code: 49}) {
		t.Error("event consumed after stop")
	}
}

func TestDeliverWithoutHandle(t *testing.T) {
	life := &Lifecycle{}
	if life.Deliver(Event{Kind: KeyDown, Code: 49}) {
		t.Error("consumed with no in-process handle installed")
	}
}

func TestScopesIndependent(t *testing.T) {
	src := &FakeSource{}
	life := &Lifecycle{Check: grantAll, NewSystemWide: src.Open}

	var global, local int
	if _, err := life.Start(SystemWide, func(Event) bool { global++; return false }); err != nil {
		t.Fatal(err)
	}
	if _, err := life.Start(InProcess, func(Event) bool { local++; return true }); err != nil {
		t.Fatal(err)
	}

	src.Emit(Event{Kind: KeyDown, Code: 0})
	life.Deliver(Event{Kind: KeyDown, Code: 0})

	if global != 1 || local != 1 {
		t.Errorf("global=%d local=%d, want 1/1", global, local)
	}

	life.StopAll()
	if life.Active(SystemWide) || life.Active(InProcess) {
		t.Error("handles still active after StopAll")
	}
}
