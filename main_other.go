//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	// OS-level hotkey registration (used by the doctor probe) must run on
	// the process main thread on darwin and windows.
	mainthread.Init(run)
}
