package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"hark/hotkey"
	"hark/key"
	"hark/log"
	"hark/registry"
	"hark/tap"
)

// runTestMode drives the subsystem from stdin with a fake system-wide
// source so scripted runs can assert on edges without real input access.
//
// Commands, one per line:
//
//	FLAGS ctrl+shift   modifier flags now held (FLAGS none clears, fn allowed)
//	KEYDOWN space      key press under the current flags
//	KEYUP space        matching release
//	SET cmd+shift+d    re-register with a new binding
//	STATUS             print active state
//	WAIT_PRESS         block until the next press edge
//	WAIT_RELEASE       block until the next release edge
//	SLEEP 100          pause (milliseconds)
//	QUIT               exit
func runTestMode(b hotkey.Binding) {
	src := &tap.FakeSource{}
	life := &tap.Lifecycle{NewSystemWide: src.Open}
	reg := registry.New(life)
	defer reg.Close()

	pressed := make(chan struct{}, 16)
	released := make(chan struct{}, 16)
	err := reg.Register(b,
		func() {
			fmt.Println("PRESSED")
			select {
			case pressed <- struct{}{}:
			default:
			}
		},
		func() {
			fmt.Println("RELEASED")
			select {
			case released <- struct{}{}:
			default:
			}
		},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printStatus(reg)

	var flags key.Flags
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "FLAGS":
			arg := ""
			if len(fields) > 1 {
				arg = fields[1]
			}
			flags = parseTestFlags(arg)
			src.Emit(tap.Event{Kind: tap.FlagsChanged, Flags: flags})

		case "KEYDOWN", "KEYUP":
			if len(fields) < 2 {
				continue
			}
			k, ok := key.FromName(fields[1])
			if !ok {
				fmt.Fprintf(os.Stderr, "unknown key %q\n", fields[1])
				continue
			}
			code, _ := key.CodeOf(k)
			kind := tap.KeyDown
			if fields[0] == "KEYUP" {
				kind = tap.KeyUp
			}
			src.Emit(tap.Event{Kind: kind, Code: code, Flags: flags})

		case "SET":
			if len(fields) < 2 {
				continue
			}
			nb, err := hotkey.Parse(fields[1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid binding %q: %v\n", fields[1], err)
				continue
			}
			if err := reg.Update(nb); err != nil {
				fmt.Fprintf(os.Stderr, "update failed: %v\n", err)
				continue
			}
			printStatus(reg)

		case "STATUS":
			printStatus(reg)

		case "WAIT_PRESS":
			<-pressed

		case "WAIT_RELEASE":
			<-released

		case "SLEEP":
			if len(fields) > 1 {
				if ms, err := strconv.Atoi(fields[1]); err == nil {
					time.Sleep(time.Duration(ms) * time.Millisecond)
				}
			}

		case "QUIT":
			log.Close()
			os.Exit(0)
		}
	}
}

func printStatus(reg *registry.Registry) {
	active, reason := reg.Active()
	if active {
		fmt.Printf("REGISTERED %s active=true\n", reg.Binding().Spec())
		return
	}
	fmt.Printf("REGISTERED %s active=false reason=%q\n", reg.Binding().Spec(), reason)
}

// parseTestFlags builds a flag bitset from "ctrl+shift" style input. "fn"
// is accepted alongside the four modifiers; "none" or empty clears.
func parseTestFlags(spec string) key.Flags {
	if spec == "" || spec == "none" {
		return 0
	}
	var f key.Flags
	for _, part := range strings.Split(spec, "+") {
		if part == "fn" {
			f |= key.FlagFn
			continue
		}
		if m, ok := key.ModifierFromName(part); ok {
			f |= m.Flag()
		}
	}
	return f
}
