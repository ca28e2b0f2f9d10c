//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// watchPermissionSignal invokes fn on SIGUSR1, the "I just granted the
// permission, try again" nudge for a running process.
func watchPermissionSignal(fn func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	go func() {
		for range ch {
			fn()
		}
	}()
}
