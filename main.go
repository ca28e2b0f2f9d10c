package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"golang.org/x/term"

	"hark/doctor"
	"hark/hotkey"
	"hark/key"
	"hark/log"
	"hark/permission"
	"hark/recorder"
	"hark/registry"
	"hark/settings"
	"hark/shutdown"
	"hark/tap"
)

var version = "dev"

// app ties the subsystem together for one process: the registry's tap
// lifecycle holding the saved shortcut's monitors, and a recorder (with
// its own private lifecycle) for capturing a new one.
type app struct {
	life    *tap.Lifecycle
	reg     *registry.Registry
	rec     *recorder.Recorder
	sink    EventSink
	cfgPath string
	notify  bool
}

var shutdownOnce sync.Once

func (a *app) gracefulShutdown() {
	shutdownOnce.Do(func() {
		a.rec.Cancel()
		a.reg.Close()
		a.life.StopAll()
		log.Close()
		os.Exit(0)
	})
}

// deliver routes one application key event: an open capture session gets
// it first (and consumes it), otherwise it reaches the registry's
// in-process monitor.
func (a *app) deliver(ev tap.Event) bool {
	if a.rec.Deliver(ev) {
		return true
	}
	return a.life.Deliver(ev)
}

// alert raises a desktop notification; failures are logged, never fatal.
func (a *app) alert(title, body string) {
	if !a.notify {
		return
	}
	if err := beeep.Notify(title, body, ""); err != nil {
		log.Warnf("notification failed: %v", err)
	}
}

// watchCaptures applies each finished recording session: re-register,
// persist, and tell the display layer.
func (a *app) watchCaptures() {
	for b := range a.rec.Done() {
		b.Label = a.reg.Binding().Label
		conflicts := hotkey.FindConflicts(b)
		log.CaptureFinished(b.Spec(), conflicts)

		if err := a.reg.Update(b); err != nil {
			log.Errorf("cannot apply %s: %v", b.Spec(), err)
			a.sink.Notice(fmt.Sprintf("cannot apply %s: %v", b.Display(), err))
			continue
		}
		if err := settings.Save(a.cfgPath, settings.FromBinding(b)); err != nil {
			log.Errorf("settings save failed: %v", err)
			a.sink.Notice(fmt.Sprintf("saved for this session only: %v", err))
		} else {
			log.BindingSaved(b.Spec())
		}
		if len(conflicts) > 0 {
			a.alert("Shortcut conflict",
				fmt.Sprintf("%s is already used by %s", b.Display(), strings.Join(conflicts, ", ")))
		}

		active, reason := a.reg.Active()
		a.sink.CaptureDone(b, conflicts)
		a.sink.StatusChanged(b, active, reason)
	}
}

func run() {
	hotkeyFlag := flag.String("hotkey", "", `override the saved shortcut for this run (e.g. "ctrl+shift+space" or "fn")`)
	configFlag := flag.String("config", settings.DefaultConfigPath(), "settings file path")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run interactive diagnostics and exit")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	notifyFlag := flag.Bool("notify", true, "Desktop notifications for conflicts and permission problems")
	flag.Parse()

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if *versionFlag {
		fmt.Printf("hark %s\n", version)
		os.Exit(0)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(*hotkeyFlag))
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	cfg, err := settings.Load(*configFlag)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			log.Warnf("settings load failed: %v", err)
		}
		cfg = settings.Default()
	}

	binding, err := cfg.Binding()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using default shortcut)\n", err)
		log.Warnf("stored binding invalid: %v", err)
		binding, _ = settings.Default().Binding()
	}
	if *hotkeyFlag != "" {
		b, err := hotkey.Parse(*hotkeyFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -hotkey %q: %v\n", *hotkeyFlag, err)
			os.Exit(1)
		}
		b.Label = binding.Label
		binding = b
	}

	if *testFlag {
		runTestMode(binding)
		return
	}

	life := &tap.Lifecycle{}
	a := &app{
		life:    life,
		reg:     registry.New(life),
		rec:     recorder.New(),
		cfgPath: *configFlag,
		notify:  *notifyFlag,
	}

	useTUI := *tuiFlag && term.IsTerminal(int(os.Stdout.Fd()))
	if useTUI {
		tuiProgram = newTUIProgram(a, binding)
		a.sink = &tuiSink{p: tuiProgram}
	} else {
		a.sink = &consoleSink{}
	}
	a.rec.OnChange = func() {
		mods, captured := a.rec.Snapshot()
		a.sink.CaptureChanged(mods, captured)
	}

	if err := a.reg.Register(binding,
		func() { a.sink.HotkeyPressed() },
		func() { a.sink.HotkeyReleased() },
	); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot register %s: %v\n", binding.Display(), err)
		os.Exit(1)
	}

	if conflicts := hotkey.FindConflicts(binding); len(conflicts) > 0 {
		log.Warnf("binding %s conflicts with: %s", binding.Spec(), strings.Join(conflicts, ", "))
		a.alert("Shortcut conflict",
			fmt.Sprintf("%s is already used by %s", binding.Display(), strings.Join(conflicts, ", ")))
	}

	active, reason := a.reg.Active()
	if !active {
		log.Warnf("system-wide monitoring unavailable: %s", reason)
		a.alert("Input monitoring unavailable",
			reason+". The shortcut works only while hark is focused.")
	}
	a.sink.StatusChanged(binding, active, reason)

	go a.watchCaptures()

	var perm permission.Notifier
	cancelPerm := perm.Subscribe(func() {
		a.reg.PermissionChanged()
		active, reason := a.reg.Active()
		a.sink.StatusChanged(a.reg.Binding(), active, reason)
	})
	defer cancelPerm()
	watchPermissionSignal(perm.Notify)

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		a.gracefulShutdown()
	}()

	if tuiProgram != nil {
		if _, err := tuiProgram.Run(); err != nil {
			log.Errorf("TUI error: %v", err)
			os.Exit(1)
		}
		a.gracefulShutdown()
		return
	}

	fmt.Printf("hark %s — %s registered", version, binding.Display())
	if !active {
		fmt.Printf(" (limited: %s)", reason)
	}
	fmt.Println()
	select {}
}

// consoleSink is the display layer for -tui=false: one line per event on
// stdout, nothing interactive.
type consoleSink struct{}

func (consoleSink) HotkeyPressed()  { fmt.Println("pressed") }
func (consoleSink) HotkeyReleased() { fmt.Println("released") }

func (consoleSink) StatusChanged(b hotkey.Binding, active bool, reason string) {
	if active {
		fmt.Printf("monitoring %s\n", b.Display())
		return
	}
	fmt.Printf("monitoring %s (limited: %s)\n", b.Display(), reason)
}

func (consoleSink) CaptureChanged(mods key.ModSet, captured key.Key) {}

func (consoleSink) CaptureDone(b hotkey.Binding, conflicts []string) {
	fmt.Printf("captured %s\n", b.Display())
}

func (consoleSink) Notice(text string) {
	fmt.Fprintln(os.Stderr, text)
}
