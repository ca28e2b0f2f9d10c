//go:build linux

package permission

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Check reports whether raw keyboard devices are readable. On Linux that
// means at least one /dev/input keyboard opens, which requires membership
// in the 'input' group.
func Check() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("scanning input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("%w: no keyboard devices found", ErrDenied)
	}
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			return nil
		}
	}
	return fmt.Errorf("%w: found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER, then re-login)",
		ErrDenied, len(keyboards))
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}
