//go:build integration

package test_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var testBinary string

func TestMain(m *testing.M) {
	testBinary = os.Getenv("HARK_TEST_BIN")
	if testBinary == "" {
		fmt.Fprintln(os.Stderr, "HARK_TEST_BIN not set; run: make test-integration")
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func cmds(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func runHark(t *testing.T, stdin string, args ...string) (out, logDir string) {
	t.Helper()
	logDir = t.TempDir()
	cmdArgs := append([]string{"-logpath", logDir, "-test"}, args...)

	cmd := exec.Command(testBinary, cmdArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = os.Environ()

	b, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("hark exited with error: %v\noutput: %s", err, b)
	}
	return string(b), logDir
}

func readLog(t *testing.T, logDir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("failed to read %s: %v", filename, err)
	}
	return string(data)
}

func TestPressRelease(t *testing.T) {
	out, _ := runHark(t, cmds(
		"FLAGS ctrl+shift",
		"KEYDOWN space",
		"WAIT_PRESS",
		"KEYUP space",
		"WAIT_RELEASE",
		"QUIT",
	), "-hotkey", "ctrl+shift+space")

	if strings.Count(out, "PRESSED") != 1 {
		t.Errorf("expected exactly one PRESSED, output:\n%s", out)
	}
	if strings.Count(out, "RELEASED") != 1 {
		t.Errorf("expected exactly one RELEASED, output:\n%s", out)
	}
}

func TestSupersetDoesNotMatch(t *testing.T) {
	out, _ := runHark(t, cmds(
		"FLAGS ctrl+shift+cmd",
		"KEYDOWN space",
		"KEYUP space",
		"SLEEP 200",
		"QUIT",
	), "-hotkey", "ctrl+shift+space")

	if strings.Contains(out, "PRESSED") {
		t.Errorf("superset of modifiers must not match, output:\n%s", out)
	}
}

func TestFnHold(t *testing.T) {
	out, _ := runHark(t, cmds(
		"FLAGS fn",
		"WAIT_PRESS",
		"FLAGS none",
		"WAIT_RELEASE",
		"QUIT",
	), "-hotkey", "fn")

	if !strings.Contains(out, "PRESSED") || !strings.Contains(out, "RELEASED") {
		t.Errorf("fn hold should produce one press/release pair, output:\n%s", out)
	}
}

func TestRebind(t *testing.T) {
	out, _ := runHark(t, cmds(
		"SET cmd+shift+d",
		"FLAGS cmd+shift",
		"KEYDOWN d",
		"WAIT_PRESS",
		"KEYUP d",
		"WAIT_RELEASE",
		"QUIT",
	), "-hotkey", "ctrl+shift+space")

	if !strings.Contains(out, "REGISTERED cmd+shift+d") {
		t.Errorf("expected re-registration with new binding, output:\n%s", out)
	}
	if strings.Count(out, "PRESSED") != 1 {
		t.Errorf("expected exactly one PRESSED after rebind, output:\n%s", out)
	}
}

func TestOldBindingDeadAfterRebind(t *testing.T) {
	out, _ := runHark(t, cmds(
		"SET cmd+shift+d",
		"FLAGS ctrl+shift",
		"KEYDOWN space",
		"KEYUP space",
		"SLEEP 200",
		"QUIT",
	), "-hotkey", "ctrl+shift+space")

	if strings.Contains(out, "PRESSED") {
		t.Errorf("old binding must not fire after rebind, output:\n%s", out)
	}
}

func TestDiagnosticsLog(t *testing.T) {
	_, logDir := runHark(t, cmds(
		"FLAGS ctrl+shift",
		"KEYDOWN space",
		"WAIT_PRESS",
		"KEYUP space",
		"WAIT_RELEASE",
		"QUIT",
	), "-hotkey", "ctrl+shift+space")

	diag := readLog(t, logDir, "diagnostics_log.txt")
	if !strings.Contains(diag, "hotkey_registered") {
		t.Error("expected hotkey_registered in diagnostics")
	}
	if !strings.Contains(diag, "hotkey pressed") {
		t.Error("expected press entry in diagnostics")
	}
}
