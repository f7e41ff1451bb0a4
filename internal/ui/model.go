// ABOUTME: Bubbletea model for the sampler control surface
// ABOUTME: Defines application state, key handling and rendering
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/reversereverb-go/pkg/reversereverb"
)

// Engine is the part of the processor the control surface drives
type Engine interface {
	Settings() reversereverb.Settings
	ApplySettings(reversereverb.Settings)
	RequestTransform()
	Trigger()
	Stop()
	ExportTemp(now time.Time) (string, error)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// Model represents the TUI state
type Model struct {
	engine Engine
	ctrl   *Control

	// Sample
	loaded   bool
	fileName string
	frames   int
	rate     int

	// Playback
	playing  bool
	progress float64
	bpm      float64
	tail     float64

	// Transform
	transforming bool
	lastRun      string

	// Output
	volume int
	muted  bool

	// Feedback line
	message string
	isError bool

	selected  int
	showDebug bool
	quitting  bool

	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	case TransformMsg:
		m.applyTransform(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Reverse Reverb"))
	b.WriteString("\n")
	b.WriteString(m.renderSample())
	b.WriteString("\n")
	b.WriteString(m.renderParams())
	b.WriteString("\n")
	b.WriteString(m.renderOutput())

	if m.message != "" {
		style := valueStyle
		if m.isError {
			style = errorStyle
		}
		b.WriteString(style.Render(m.message))
		b.WriteString("\n")
	}

	if m.showDebug {
		b.WriteString(m.renderDebug())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space:Play  s:Stop  ↑/↓:Select  ←/→:Adjust  e:Export  +/-:Volume  m:Mute  d:Debug  q:Quit"))
	return b.String()
}

// renderSample renders the loaded file and playhead
func (m Model) renderSample() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Sample: "))
	if !m.loaded {
		b.WriteString(valueStyle.Render("none loaded"))
		b.WriteString("\n")
		return b.String()
	}

	name := m.fileName
	if name == "" {
		name = "(untitled)"
	}
	b.WriteString(valueStyle.Render(truncate(name, 40)))
	if m.rate > 0 {
		b.WriteString(valueStyle.Render(fmt.Sprintf("  %.2fs", float64(m.frames)/float64(m.rate))))
	}
	b.WriteString("\n")

	state := "Stopped"
	if m.playing {
		state = "Playing"
	}
	if m.transforming {
		state = "Processing"
	}
	b.WriteString(headerStyle.Render("State:  "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%-10s [%s]", state, renderBar(int(m.progress*100), 100, 30))))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Tempo:  "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f BPM, tail %.2fs", m.bpm, m.tail)))
	b.WriteString("\n")
	return b.String()
}

// renderParams renders the adjustable parameter rows
func (m Model) renderParams() string {
	s := m.engine.Settings()

	var b strings.Builder
	for i, p := range params {
		line := fmt.Sprintf("%-12s %s", p.label, p.value(s))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(valueStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderOutput renders device volume
func (m Model) renderOutput() string {
	mute := ""
	if m.muted {
		mute = " (muted)"
	}
	return headerStyle.Render("Volume: ") +
		valueStyle.Render(fmt.Sprintf("[%s] %d%%%s", renderBar(m.volume, 100, 10), m.volume, mute)) +
		"\n"
}

// renderDebug renders the last transform run
func (m Model) renderDebug() string {
	run := m.lastRun
	if run == "" {
		run = "(none)"
	}
	return helpStyle.Render(fmt.Sprintf("last transform: %s\n", run))
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.ctrl.sendQuit()
		return m, tea.Quit
	case " ", "enter":
		m.engine.Trigger()
	case "s":
		m.engine.Stop()
	case "up", "k":
		m.selected = (m.selected - 1 + len(params)) % len(params)
	case "down", "j", "tab":
		m.selected = (m.selected + 1) % len(params)
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case "e":
		m.export()
	case "+", "=":
		m.volume = min(100, m.volume+5)
		m.ctrl.sendVolume(m.volume, m.muted)
	case "-":
		m.volume = max(0, m.volume-5)
		m.ctrl.sendVolume(m.volume, m.muted)
	case "m":
		m.muted = !m.muted
		m.ctrl.sendVolume(m.volume, m.muted)
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// adjust steps the selected parameter and queues a transform when the
// change affects the rendered sound
func (m *Model) adjust(dir int) {
	p := params[m.selected]
	s := m.engine.Settings()
	p.step(&s, dir)
	m.engine.ApplySettings(s)
	if p.reprocess {
		m.engine.RequestTransform()
	}
}

func (m *Model) export() {
	path, err := m.engine.ExportTemp(time.Now())
	if err != nil {
		m.message = fmt.Sprintf("Export failed: %v", err)
		m.isError = true
		return
	}
	m.message = "Exported " + path
	m.isError = false
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Loaded != nil {
		m.loaded = *msg.Loaded
	}
	if msg.FileName != "" {
		m.fileName = msg.FileName
	}
	if msg.Frames != 0 {
		m.frames = msg.Frames
		m.rate = msg.SampleRate
	}
	if msg.Playing != nil {
		m.playing = *msg.Playing
	}
	if msg.Transforming != nil {
		m.transforming = *msg.Transforming
	}
	m.progress = msg.Progress
	if msg.BPM != 0 {
		m.bpm = msg.BPM
		m.tail = msg.TailSeconds
	}
}

// applyTransform records the outcome of a background transform
func (m *Model) applyTransform(msg TransformMsg) {
	m.transforming = false
	m.lastRun = msg.RunID
	if msg.Err != nil {
		m.message = fmt.Sprintf("Processing failed: %v", msg.Err)
		m.isError = true
		m.loaded = false
		return
	}
	m.frames = msg.Frames
	m.message = ""
	m.isError = false
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Loaded       *bool
	FileName     string
	Frames       int
	SampleRate   int
	Playing      *bool
	Transforming *bool
	Progress     float64
	BPM          float64
	TailSeconds  float64
}

// TransformMsg reports a finished background transform
type TransformMsg struct {
	RunID  string
	Frames int
	Err    error
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
