package doctor

import (
	"errors"
	"fmt"
	"time"

	xhotkey "golang.design/x/hotkey"

	"hark/hotkey"
	"hark/key"
	"hark/permission"
	"hark/tap"
)

// Run executes interactive diagnostic checks and returns an exit code
// (0=all pass, 1=any fail).
func Run(spec string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("hark doctor - interactive system diagnostics")
	fmt.Println("=============================================")

	binding := hotkey.Binding{Key: key.Space, Mods: key.ModSet(key.ModControl).With(key.ModShift)}
	if spec != "" {
		b, err := hotkey.Parse(spec)
		if err != nil {
			fmt.Printf("Invalid hotkey %q: %v\n", spec, err)
			return 1
		}
		binding = b
	}

	allPass := true

	if !checkPermission() {
		allPass = false
	}
	if allPass && !checkRawTap(binding) {
		allPass = false
	}
	if allPass && !checkOSRegistration(binding) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. See details above.")
	}

	if allPass {
		return 0
	}
	return 1
}

func checkPermission() bool {
	fmt.Println()
	fmt.Println("[1/3] Input monitoring permission")

	if err := permission.Check(); err != nil {
		if errors.Is(err, permission.ErrDenied) {
			fmt.Printf("  FAIL: %v\n", err)
		} else {
			fmt.Printf("  FAIL: cannot check permission: %v\n", err)
		}
		return false
	}
	fmt.Println("  PASS: raw input access available")
	return true
}

func checkRawTap(binding hotkey.Binding) bool {
	fmt.Println()
	fmt.Println("[2/3] System-wide event tap")
	fmt.Printf("Press %s...\n", binding.Display())

	life := &tap.Lifecycle{}
	tracker := hotkey.NewTracker(binding)
	pressed := make(chan struct{}, 1)
	released := make(chan struct{}, 1)

	h, err := life.Start(tap.SystemWide, func(ev tap.Event) bool {
		switch tracker.Feed(ev) {
		case hotkey.EdgePressed:
			select {
			case pressed <- struct{}{}:
			default:
			}
		case hotkey.EdgeReleased:
			select {
			case released <- struct{}{}:
			default:
			}
		}
		return false
	})
	if err != nil {
		fmt.Printf("  FAIL: could not install tap: %v\n", err)
		return false
	}
	defer life.Stop(h)

	select {
	case <-pressed:
		fmt.Println("  PASS: press edge detected")
		// Wait for the release so it does not bleed into the next check
		select {
		case <-released:
		case <-time.After(5 * time.Second):
		}
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}

// checkOSRegistration probes the fallback path: OS-level registration of
// the same combination, no raw event access needed. Modifier-only
// bindings cannot be expressed there and are skipped.
func checkOSRegistration(binding hotkey.Binding) bool {
	fmt.Println()
	fmt.Println("[3/3] OS-level hotkey registration")

	if binding.ModifierOnly() {
		fmt.Printf("  SKIP: %s is flag-transition only, not registrable\n", binding.Display())
		return true
	}

	mods, xk, err := xhotkeyFor(binding)
	if err != nil {
		fmt.Printf("  SKIP: %v\n", err)
		return true
	}

	hk := xhotkey.New(mods, xk)
	if err := hk.Register(); err != nil {
		fmt.Printf("  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer hk.Unregister()

	fmt.Printf("Press %s again...\n", binding.Display())
	select {
	case <-hk.Keydown():
		fmt.Println("  PASS: registration works")
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}
