package tap

import "sync"

// FakeSource is a hand-driven system-wide source for tests and the
// headless test mode.
type FakeSource struct {
	mu      sync.Mutex
	emit    func(Event)
	started int
	stopped int
}

// Open is an OpenSource that wires the fake into a Lifecycle.
func (f *FakeSource) Open(emit func(Event)) (func(), error) {
	f.mu.Lock()
	f.emit = emit
	f.started++
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.emit = nil
		f.stopped++
		f.mu.Unlock()
	}, nil
}

// Emit delivers an event as if the host produced it. No-op when the
// source is not open.
func (f *FakeSource) Emit(ev Event) {
	f.mu.Lock()
	emit := f.emit
	f.mu.Unlock()
	if emit != nil {
		emit(ev)
	}
}

// Starts returns how many times the source was opened.
func (f *FakeSource) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

// Stops returns how many times the source was torn down.
func (f *FakeSource) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}
