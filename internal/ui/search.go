package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hamidallah2/quran/internal/catalog"
	"github.com/hamidallah2/quran/internal/search"
)

// searchOverlay is the keyboard-driven reciter search. Queries run
// only after the input has been quiet for the debounce interval;
// every edit bumps a sequence number so stale ticks are ignored.
type searchOverlay struct {
	input    textinput.Model
	index    *search.Index
	debounce time.Duration

	open     bool
	seq      int
	ran      string // the query the current results answer
	results  []catalog.Reciter
	focus    int
	searched bool
}

func newSearchOverlay(prompt string, debounce time.Duration) searchOverlay {
	input := textinput.New()
	input.Placeholder = prompt
	input.Prompt = "/ "
	input.CharLimit = 60
	input.Width = 40
	return searchOverlay{input: input, debounce: debounce}
}

func (s *searchOverlay) setIndex(idx *search.Index) {
	s.index = idx
	if s.open && s.ran != "" {
		s.runQuery()
	}
}

func (s *searchOverlay) show() tea.Cmd {
	s.open = true
	s.reset()
	return s.input.Focus()
}

func (s *searchOverlay) close() {
	s.open = false
	s.input.Blur()
	s.reset()
}

// reset drops results and invalidates any pending debounce tick.
func (s *searchOverlay) reset() {
	s.seq++
	s.input.SetValue("")
	s.results = nil
	s.focus = 0
	s.searched = false
	s.ran = ""
}

// update handles a key press while the overlay is open. A non-nil
// reciter means the user committed a selection and the overlay
// closed.
func (s *searchOverlay) update(msg tea.KeyMsg) (tea.Cmd, *catalog.Reciter) {
	switch msg.String() {
	case "esc":
		if s.input.Value() != "" {
			s.reset()
			return nil, nil
		}
		s.close()
		return nil, nil

	case "up":
		s.move(-1)
		return nil, nil

	case "down":
		s.move(1)
		return nil, nil

	case "enter":
		if len(s.results) == 0 {
			return nil, nil
		}
		chosen := s.results[s.focus]
		s.close()
		return nil, &chosen
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() == before {
		return cmd, nil
	}

	s.seq++
	if strings.TrimSpace(s.input.Value()) == "" {
		s.results = nil
		s.focus = 0
		s.searched = false
		s.ran = ""
		return cmd, nil
	}
	seq := s.seq
	tick := tea.Tick(s.debounce, func(time.Time) tea.Msg {
		return searchDebounced{seq: seq}
	})
	return tea.Batch(cmd, tick), nil
}

// debounced runs the query if the tick is still current.
func (s *searchOverlay) debounced(msg searchDebounced) {
	if !s.open || msg.seq != s.seq {
		return
	}
	s.runQuery()
}

func (s *searchOverlay) runQuery() {
	s.ran = s.input.Value()
	s.results = s.index.Query(s.ran)
	s.focus = 0
	s.searched = true
}

// move shifts the result focus with wraparound.
func (s *searchOverlay) move(delta int) {
	n := len(s.results)
	if n == 0 {
		return
	}
	s.focus = (s.focus + delta + n) % n
}

const searchVisible = 8

func (s *searchOverlay) view(loc *Localization) string {
	var b strings.Builder
	b.WriteString(s.input.View())
	b.WriteString("\n")

	switch {
	case s.searched && len(s.results) == 0:
		b.WriteString(MutedItem.Render(loc.T(KeyNoResults)))
	default:
		q := search.Normalize(s.ran)
		first := 0
		if s.focus >= searchVisible {
			first = s.focus - searchVisible + 1
		}
		for i := first; i < len(s.results) && i < first+searchVisible; i++ {
			name := highlightName(s.results[i].Name, q)
			if i == s.focus {
				b.WriteString(SelectedItem.Render(name))
			} else {
				b.WriteString(NormalItem.Render(name))
			}
			if i < len(s.results)-1 && i < first+searchVisible-1 {
				b.WriteString("\n")
			}
		}
	}
	return OverlayBox.Render(b.String())
}

// highlightName wraps the matched span of a result name in the match
// style.
func highlightName(name, normalizedQuery string) string {
	start, end, ok := search.Span(name, normalizedQuery)
	if !ok {
		return name
	}
	return name[:start] + MatchStyle.Render(name[start:end]) + name[end:]
}
