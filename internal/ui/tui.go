// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the channels it reports back on
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// VolumeChangeMsg carries a device volume change out of the TUI
type VolumeChangeMsg struct {
	Volume int
	Muted  bool
}

// QuitMsg signals that the user asked to quit
type QuitMsg struct{}

// Control holds channels the TUI uses to reach the rest of the app
type Control struct {
	Volume chan VolumeChangeMsg
	Quit   chan QuitMsg
}

// NewControl creates a new control handler
func NewControl() *Control {
	return &Control{
		Volume: make(chan VolumeChangeMsg, 10),
		Quit:   make(chan QuitMsg, 1),
	}
}

func (c *Control) sendVolume(volume int, muted bool) {
	if c == nil {
		return
	}
	select {
	case c.Volume <- VolumeChangeMsg{Volume: volume, Muted: muted}:
	default:
	}
}

func (c *Control) sendQuit() {
	if c == nil {
		return
	}
	select {
	case c.Quit <- QuitMsg{}:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(engine Engine, ctrl *Control) Model {
	return Model{
		engine: engine,
		ctrl:   ctrl,
		volume: 100,
	}
}

// Run creates the TUI program. The caller starts it and feeds it StatusMsg
// and TransformMsg values through Send.
func Run(engine Engine, ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(engine, ctrl), tea.WithAltScreen())
	return p, nil
}
