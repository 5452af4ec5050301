package ui

import (
	"fmt"
	"strings"

	"github.com/olivier-w/specviz/internal/util"
)

var barChars = []rune(" ▁▂▃▄▅▆▇█")

const capChar = "─"

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.tooSmall() {
		return "\n " + noticeStyle.Render("terminal too small") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteByte('\n')
	m.viewBars(&b)
	b.WriteString(m.viewLegend())
	b.WriteByte('\n')
	b.WriteString(m.viewLabels())
	b.WriteByte('\n')
	b.WriteString(m.viewStatus())
	return b.String()
}

func (m Model) viewHeader() string {
	line := " " + headerStyle.Render("specviz") + "  " + titleStyle.Render(m.metadata.Title)
	if m.metadata.Artist != "" {
		line += "  " + artistStyle.Render(m.metadata.Artist)
	}
	return line
}

// viewBars draws the spectrum column by column, bottom-anchored, with a
// fractional block at each bar's top and a falling peak cap above it.
func (m Model) viewBars(b *strings.Builder) {
	rows := m.barRows()
	levels := m.analyzer.Levels()
	caps := m.caps.Positions()

	for r := 0; r < rows; r++ {
		rowFromBottom := float64(rows - 1 - r)
		b.WriteByte(' ')
		for i := 0; i < m.numBands; i++ {
			var lv float64
			if i < len(levels) {
				lv = levels[i]
			}
			// Even silence keeps a one-row stub so the layout reads
			// as a spectrum rather than a blank region.
			h := lv / 100 * float64(rows)
			if h < 1 {
				h = 1
			}

			cell := " "
			switch {
			case h >= rowFromBottom+1:
				cell = string(barChars[len(barChars)-1])
			case h > rowFromBottom:
				idx := int((h - rowFromBottom) * float64(len(barChars)-1))
				cell = string(barChars[idx])
			case i < len(caps) && caps[i] > rowFromBottom && caps[i] <= rowFromBottom+1:
				cell = capChar
			}

			if cell != " " {
				b.WriteString(m.barStyles[i].Render(cell))
			} else {
				b.WriteByte(' ')
			}
			if i < m.numBands-1 {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
}

// barsWidth is the number of columns the bars occupy, gaps included.
func (m Model) barsWidth() int {
	return m.numBands*colWidth - 1
}

// legendSegments derives the tick count from the width alone so the
// legend stays stable while band count and height vary.
func legendSegments(width int) int {
	s := width / 10
	if s < 8 {
		s = 8
	}
	if s > 16 {
		s = 16
	}
	return s
}

func (m Model) viewLegend() string {
	w := m.barsWidth()
	seg := legendSegments(m.width)

	line := make([]rune, w)
	for i := range line {
		line[i] = '─'
	}
	for s := 0; s <= seg; s++ {
		line[s*(w-1)/seg] = '┴'
	}
	return " " + legendStyle.Render(string(line))
}

// viewLabels prints the starting frequency of the band under each
// legend tick, skipping labels that would collide with the previous one.
func (m Model) viewLabels() string {
	w := m.barsWidth()
	seg := legendSegments(m.width)

	line := make([]rune, w)
	for i := range line {
		line[i] = ' '
	}

	next := 0
	for s := 0; s < seg; s++ {
		col := s * (w - 1) / seg
		if col < next {
			continue
		}
		band := col / colWidth
		if band >= m.numBands {
			band = m.numBands - 1
		}
		label := []rune(util.FormatFreq(m.analyzer.BandStartFreq(band)))
		if col+len(label) > w {
			break
		}
		copy(line[col:], label)
		next = col + len(label) + 1
	}
	return " " + labelStyle.Render(string(line))
}

func (m Model) viewStatus() string {
	elapsed := util.FormatDuration(m.elapsed)
	total := util.FormatDuration(m.duration)
	left := fmt.Sprintf("▶ %s / %s", elapsed, total)
	right := "q quit"

	gap := m.width - len(left) - len(right) - 3
	if gap < 2 {
		gap = 2
	}
	return " " + timeStyle.Render(left) + strings.Repeat(" ", gap) + helpStyle.Render(right)
}
