package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatFreq formats a frequency for the legend: whole hertz below
// 1 kHz, tenths of a kilohertz above.
func FormatFreq(hz float64) string {
	if hz < 1000 {
		return fmt.Sprintf("%.0f", hz)
	}
	return fmt.Sprintf("%.1fk", hz/1000)
}
