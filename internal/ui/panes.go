package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// pane indices, in cascade order.
const (
	paneReciter = iota
	paneMoshaf
	paneSurah
	paneCount
)

// renderPane draws one scrolling column. cursor is the row under the
// movable cursor, chosen the committed selection (-1 for none).
func renderPane(title string, items []string, cursor, chosen int, focused bool, width, height int, loc *Localization) string {
	var b strings.Builder

	titleStyle := PaneTitleInactive
	if focused {
		titleStyle = PaneTitle
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	rows := height - 1
	if rows < 1 {
		rows = 1
	}

	if len(items) == 0 {
		b.WriteString(MutedItem.Render(loc.T(KeyNoOptions)))
		return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
	}

	first := 0
	if cursor >= rows {
		first = cursor - rows + 1
	}
	for i := first; i < len(items) && i < first+rows; i++ {
		line := truncate(items[i], width-2)
		switch {
		case focused && i == cursor:
			b.WriteString(SelectedItem.Render(line))
		case i == chosen:
			b.WriteString(ChosenItem.Render(line))
		default:
			b.WriteString(NormalItem.Render(line))
		}
		if i < len(items)-1 && i < first+rows-1 {
			b.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

func truncate(s string, max int) string {
	if max < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// surahLabel renders a surah row as its zero-padded id and name.
func surahLabel(id int, name string) string {
	return fmt.Sprintf("%03d %s", id, name)
}
