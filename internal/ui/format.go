package ui

import "fmt"

// FormatTime renders a position in seconds as M:SS, or H:MM:SS once
// the hour mark is crossed. Negative or unknown positions render as
// 0:00.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
