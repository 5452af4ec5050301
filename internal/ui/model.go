package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/specviz/internal/player"
	"github.com/olivier-w/specviz/internal/visualizer"
)

const (
	// Below these dimensions the spectrum is unreadable; show a notice
	// instead of squeezing bars into a postage stamp.
	minWidth  = 24
	minHeight = 10

	// Each band occupies one bar column plus one gap column.
	colWidth = 2

	minBands = 8
	maxBands = 96
)

// Model is the Bubbletea model for the spectrum view.
type Model struct {
	player   *player.Player
	metadata player.Metadata
	history  *visualizer.History
	analyzer *visualizer.Analyzer
	caps     *visualizer.PeakCaps

	elapsed   time.Duration
	duration  time.Duration
	width     int
	height    int
	numBands  int
	barStyles []lipgloss.Style
	quitting  bool
}

// New creates a Model for a playing track.
func New(p *player.Player, meta player.Metadata) Model {
	return Model{
		player:   p,
		metadata: meta,
		history:  p.History(),
		analyzer: visualizer.NewAnalyzer(float64(p.SampleRate())),
		caps:     visualizer.NewPeakCaps(int(time.Second / frameInterval)),
		duration: p.Duration(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(), checkDone(m.player), tea.SetWindowTitle(windowTitle(m.metadata.Title)))
}

func checkDone(p *player.Player) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			// One-way: first quit wins, playback stops immediately,
			// the current frame is abandoned.
			m.quitting = true
			m.player.Cancel()
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		return m, nil

	case playbackEndedMsg:
		m.elapsed = m.duration
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m.elapsed = m.player.Position()
		if !m.tooSmall() {
			if win, ok := m.history.Snapshot(visualizer.WindowSize); ok {
				m.analyzer.Process(win)
			}
			rows := float64(m.barRows())
			for i, lv := range m.analyzer.Levels() {
				m.caps.Step(i, lv/100*rows)
			}
		}
		return m, frameCmd()
	}

	return m, nil
}

func (m Model) tooSmall() bool {
	return m.width < minWidth || m.height < minHeight
}

// barRows is the number of terminal rows available to the bars after
// the header, legend, label, and status lines take theirs.
func (m Model) barRows() int {
	return m.height - 4
}

// relayout re-derives the band count from the terminal width and, when
// it changed, resizes the analyzer's smoothing state, the peak caps,
// and the style cache in the same step so no frame sees mismatched
// lengths.
func (m *Model) relayout() {
	if m.tooSmall() {
		return
	}
	n := bandCount(m.width)
	if n == m.numBands {
		return
	}
	m.numBands = n
	m.analyzer.Resize(n)
	m.caps.Resize(n)
	m.barStyles = make([]lipgloss.Style, n)
	for i := range m.barStyles {
		m.barStyles[i] = lipgloss.NewStyle().
			Foreground(lipgloss.Color(visualizer.BandColor(i, n).Hex()))
	}
}

func bandCount(width int) int {
	n := (width - 2) / colWidth
	if n < minBands {
		n = minBands
	}
	if n > maxBands {
		n = maxBands
	}
	return n
}

func windowTitle(title string) string {
	return "▶ " + title + " — specviz"
}
