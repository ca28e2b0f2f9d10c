//go:build windows

package main

// No out-of-band permission signal on Windows; raw input needs no grant
// there, so a retry nudge has nothing to do.
func watchPermissionSignal(fn func()) {}
