package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameInterval targets roughly 60 frames per second. Rendering faster
// than the terminal refreshes just burns CPU.
const frameInterval = 16 * time.Millisecond

type frameMsg time.Time
type playbackEndedMsg struct{}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
