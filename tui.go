package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hark/hotkey"
	"hark/key"
	"hark/tap"
)

// TUI message types
type PressedMsg struct{}
type ReleasedMsg struct{}
type StatusMsg struct {
	Binding hotkey.Binding
	Active  bool
	Reason  string
}
type CaptureTickMsg struct {
	Mods key.ModSet
	Key  key.Key
}
type CaptureDoneMsg struct {
	Binding   hotkey.Binding
	Conflicts []string
}
type NoticeMsg struct{ Text string }
type tickMsg time.Time

var tuiProgram *tea.Program

// tuiSink forwards subsystem events into the Bubble Tea message loop.
type tuiSink struct{ p *tea.Program }

func (s *tuiSink) HotkeyPressed()  { s.p.Send(PressedMsg{}) }
func (s *tuiSink) HotkeyReleased() { s.p.Send(ReleasedMsg{}) }

func (s *tuiSink) StatusChanged(b hotkey.Binding, active bool, reason string) {
	s.p.Send(StatusMsg{Binding: b, Active: active, Reason: reason})
}

func (s *tuiSink) CaptureChanged(mods key.ModSet, captured key.Key) {
	s.p.Send(CaptureTickMsg{Mods: mods, Key: captured})
}

func (s *tuiSink) CaptureDone(b hotkey.Binding, conflicts []string) {
	s.p.Send(CaptureDoneMsg{Binding: b, Conflicts: conflicts})
}

func (s *tuiSink) Notice(text string) { s.p.Send(NoticeMsg{Text: text}) }

type tuiState int

const (
	tuiStateStatus tuiState = iota
	tuiStateCapture
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	comboStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231"))
	armedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	limitedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	heldStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

type tuiModel struct {
	app   *app
	state tuiState

	binding hotkey.Binding
	active  bool
	reason  string

	held    bool
	presses int

	liveMods key.ModSet
	liveKey  key.Key

	conflicts []string
	notice    string

	frame         int
	width, height int
}

func newTUIProgram(a *app, b hotkey.Binding) *tea.Program {
	m := tuiModel{app: a, binding: b}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case PressedMsg:
		m.held = true
		m.presses++

	case ReleasedMsg:
		m.held = false

	case StatusMsg:
		m.binding = msg.Binding
		m.active = msg.Active
		m.reason = msg.Reason

	case CaptureTickMsg:
		m.liveMods = msg.Mods
		m.liveKey = msg.Key

	case CaptureDoneMsg:
		m.state = tuiStateStatus
		m.binding = msg.Binding
		m.conflicts = msg.Conflicts
		m.held = false
		m.notice = "saved " + msg.Binding.Display()

	case NoticeMsg:
		m.notice = msg.Text
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.state == tuiStateCapture {
		if msg.String() == "esc" {
			// The recorder treats bare Escape as cancel too; going through
			// Cancel keeps the view and the session in lockstep.
			m.app.rec.Cancel()
			m.state = tuiStateStatus
			m.notice = "capture cancelled"
			return m, nil
		}
		deliverKeyMsg(m.app, msg)
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		if err := m.app.rec.Start(); err == nil {
			m.state = tuiStateCapture
			m.liveMods = 0
			m.liveKey = key.None
			m.notice = ""
		}
	default:
		// Everything else is replayed into the in-process interceptors so
		// the shortcut works while hark itself is focused.
		deliverKeyMsg(m.app, msg)
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("hark") + helpStyle.Render(" "+version) + "\n\n")

	if m.state == tuiStateCapture {
		b.WriteString("Press your new shortcut" + pulseDots(m.frame) + "\n\n")
		live := m.liveMods.Symbols()
		if m.liveKey != key.None {
			live += m.liveKey.String()
		}
		if live == "" {
			live = "…"
		}
		b.WriteString("  " + comboStyle.Render(live) + "\n\n")
		b.WriteString(helpStyle.Render("esc to cancel") + "\n")
		return b.String()
	}

	b.WriteString("  " + comboStyle.Render(m.binding.Display()))
	if m.binding.Label != "" {
		b.WriteString(helpStyle.Render("  " + m.binding.Label))
	}
	b.WriteString("\n\n")

	if m.active {
		b.WriteString("  " + armedStyle.Render("● monitoring (system-wide)") + "\n")
	} else {
		b.WriteString("  " + limitedStyle.Render("▲ limited: "+m.reason) + "\n")
		b.WriteString("  " + helpStyle.Render("works only while hark is focused") + "\n")
	}

	if m.held {
		b.WriteString("  " + heldStyle.Render("● HELD") + "\n")
	} else {
		b.WriteString("  " + idleStyle.Render("○ idle") + "\n")
	}
	if m.presses > 0 {
		b.WriteString("  " + idleStyle.Render(fmt.Sprintf("%d presses", m.presses)) + "\n")
	}

	for _, c := range m.conflicts {
		b.WriteString("  " + warnStyle.Render("⚠ conflicts with "+c) + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n  " + idleStyle.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("r change shortcut • q quit") + "\n")
	return b.String()
}

func pulseDots(frame int) string {
	return strings.Repeat(".", frame%4)
}

// deliverKeyMsg replays one terminal key press into the in-process
// interceptors as the flag/down/up sequence the terminal itself cannot
// report. Returns whether a handler consumed the key-down.
func deliverKeyMsg(a *app, msg tea.KeyMsg) bool {
	k, mods, ok := decodeKeyMsg(msg)
	if !ok {
		return false
	}
	code, ok := key.CodeOf(k)
	if !ok {
		return false
	}
	flags := mods.Flags()
	if !mods.Empty() {
		a.deliver(tap.Event{Kind: tap.FlagsChanged, Flags: flags})
	}
	consumed := a.deliver(tap.Event{Kind: tap.KeyDown, Code: code, Flags: flags})
	a.deliver(tap.Event{Kind: tap.KeyUp, Code: code, Flags: flags})
	if !mods.Empty() {
		a.deliver(tap.Event{Kind: tap.FlagsChanged, Flags: 0})
	}
	return consumed
}

// decodeKeyMsg maps a Bubble Tea key message onto a key plus modifier
// set. Terminals report a subset of combinations (no bare modifiers, no
// command on most emulators); anything unmappable is skipped.
func decodeKeyMsg(msg tea.KeyMsg) (key.Key, key.ModSet, bool) {
	var mods key.ModSet
	s := msg.String()
	if msg.Alt {
		mods = mods.With(key.ModOption)
		s = strings.TrimPrefix(s, "alt+")
	}
	if strings.HasPrefix(s, "ctrl+") {
		mods = mods.With(key.ModControl)
		s = strings.TrimPrefix(s, "ctrl+")
	}
	if strings.HasPrefix(s, "shift+") {
		mods = mods.With(key.ModShift)
		s = strings.TrimPrefix(s, "shift+")
	}
	switch s {
	case " ":
		s = "space"
	case "esc":
		s = "escape"
	}
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z' {
		mods = mods.With(key.ModShift)
		s = strings.ToLower(s)
	}
	k, ok := key.FromName(s)
	if !ok {
		return key.None, 0, false
	}
	return k, mods, true
}
