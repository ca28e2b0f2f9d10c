// Package permission models the host permission that gates system-wide
// input interception, and the external "permission changed" signal that
// tells the registry to retry.
package permission

import (
	"errors"
	"sync"
)

// ErrDenied is returned by Check when the host has not granted access to
// raw input events. Callers degrade ("shortcut inactive") instead of
// failing; nothing here is fatal.
var ErrDenied = errors.New("input monitoring permission not granted")

// Notifier fans a permission-changed signal out to subscribers. The zero
// value is ready to use.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
}

// Subscribe registers fn to run on every Notify. The returned cancel
// removes the subscription; subscribers must call it on teardown.
func (n *Notifier) Subscribe(fn func()) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func())
	}
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Notify invokes every current subscriber. Called when the host reports
// that the permission state may have changed.
func (n *Notifier) Notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
