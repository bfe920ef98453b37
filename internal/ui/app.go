package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/hamidallah2/quran/internal/catalog"
	"github.com/hamidallah2/quran/internal/download"
	"github.com/hamidallah2/quran/internal/player"
	"github.com/hamidallah2/quran/internal/search"
	"github.com/hamidallah2/quran/internal/selection"
)

// Commands are the injected side-effect factories. The App never
// touches the cascade, the player, or the network directly; it issues
// these commands and receives state back as messages.
type Commands struct {
	LoadReciters  func() tea.Cmd
	LoadSuwar     func() tea.Cmd
	SelectReciter func(id int) tea.Cmd
	SelectMoshaf  func(index int) tea.Cmd
	SelectSurah   func(id int) tea.Cmd
	TogglePause   func() tea.Cmd
	StartDownload func(url, filename string) tea.Cmd
}

// App is the root Bubble Tea model.
type App struct {
	cmds Commands
	loc  *Localization

	snap    selection.Snapshot
	cursors [paneCount]int
	pane    int

	overlay searchOverlay

	spin    spinner.Model
	loading int // outstanding catalog fetches

	bar         progress.Model
	downloading bool
	dl          download.Progress

	position float64
	duration float64

	errText string
	notice  string
	width   int
	height  int
	ready   bool
}

// NewApp creates the root model with the given command functions.
func NewApp(loc *Localization, debounce time.Duration, cmds Commands) App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)
	return App{
		cmds:    cmds,
		loc:     loc,
		overlay: newSearchOverlay(loc.T(KeySearchPrompt), debounce),
		spin:    s,
		bar:     progress.New(progress.WithDefaultGradient()),
		loading: 2, // both catalog fetches start in Init
	}
}

// Init kicks off both catalog fetches.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spin.Tick}
	if a.cmds.LoadReciters != nil {
		cmds = append(cmds, a.cmds.LoadReciters())
	}
	if a.cmds.LoadSuwar != nil {
		cmds = append(cmds, a.cmds.LoadSuwar())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		if a.loading == 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case RecitersLoaded:
		if a.loading > 0 {
			a.loading--
		}
		if msg.Err != nil {
			a.errText = a.loc.ErrorText(msg.Err)
			return a, nil
		}
		a.errText = ""
		a.overlay.setIndex(search.NewIndex(msg.Reciters))
		return a, nil

	case SuwarLoaded:
		if a.loading > 0 {
			a.loading--
		}
		if msg.Err != nil {
			a.errText = a.loc.ErrorText(msg.Err)
		}
		return a, nil

	case SelectionChanged:
		a.snap = msg.Snap
		a.alignCursors()
		return a, nil

	case searchDebounced:
		a.overlay.debounced(msg)
		return a, nil

	case DownloadProgressMsg:
		a.downloading = true
		a.dl = msg.Progress
		return a, nil

	case DownloadFinished:
		// A request coalesced into an already-running download reports
		// nothing; that download's progress stays on screen.
		if msg.Path == "" && msg.Err == nil {
			return a, nil
		}
		a.downloading = false
		a.dl = download.Progress{}
		if msg.Err != nil {
			a.errText = a.loc.T(KeyErrDownloadFailed)
		} else {
			a.notice = a.loc.T(KeyDownloadDone)
		}
		return a, nil

	case PlaybackTick:
		a.position = msg.Position
		a.duration = msg.Duration
		return a, nil
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.errText != "" {
		a.errText = ""
	}
	if a.notice != "" {
		a.notice = ""
	}

	if a.overlay.open {
		cmd, chosen := a.overlay.update(msg)
		if chosen != nil && a.cmds.SelectReciter != nil {
			a.pane = paneMoshaf
			return a, tea.Batch(cmd, a.cmds.SelectReciter(chosen.ID))
		}
		return a, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "/":
		cmd := a.overlay.show()
		return a, cmd

	case "tab", "right", "l":
		a.pane = (a.pane + 1) % paneCount
		return a, nil

	case "shift+tab", "left", "h":
		a.pane = (a.pane + paneCount - 1) % paneCount
		return a, nil

	case "j", "down":
		if a.cursors[a.pane] < len(a.paneItems(a.pane))-1 {
			a.cursors[a.pane]++
		}
		return a, nil

	case "k", "up":
		if a.cursors[a.pane] > 0 {
			a.cursors[a.pane]--
		}
		return a, nil

	case "g", "home":
		a.cursors[a.pane] = 0
		return a, nil

	case "G", "end":
		if n := len(a.paneItems(a.pane)); n > 0 {
			a.cursors[a.pane] = n - 1
		}
		return a, nil

	case "enter":
		cmd := a.commit()
		return a, cmd

	case " ":
		if a.cmds.TogglePause != nil {
			return a, a.cmds.TogglePause()
		}
		return a, nil

	case "d":
		cmd := a.download()
		return a, cmd

	case "r":
		var cmds []tea.Cmd
		if a.cmds.LoadReciters != nil {
			a.loading++
			cmds = append(cmds, a.cmds.LoadReciters())
		}
		if a.cmds.LoadSuwar != nil {
			a.loading++
			cmds = append(cmds, a.cmds.LoadSuwar())
		}
		cmds = append(cmds, a.spin.Tick)
		return a, tea.Batch(cmds...)
	}

	return a, nil
}

// commit selects the cursor row of the focused pane and moves focus
// down the cascade.
func (a *App) commit() tea.Cmd {
	cursor := a.cursors[a.pane]
	switch a.pane {
	case paneReciter:
		if cursor < len(a.snap.Reciters) && a.cmds.SelectReciter != nil {
			a.pane = paneMoshaf
			return a.cmds.SelectReciter(a.snap.Reciters[cursor].ID)
		}
	case paneMoshaf:
		if cursor < len(a.snap.MoshafChoice) && a.cmds.SelectMoshaf != nil {
			a.pane = paneSurah
			return a.cmds.SelectMoshaf(cursor)
		}
	case paneSurah:
		if cursor < len(a.snap.SurahChoice) && a.cmds.SelectSurah != nil {
			return a.cmds.SelectSurah(a.snap.SurahChoice[cursor].ID)
		}
	}
	return nil
}

// download starts saving the currently resolved track.
func (a *App) download() tea.Cmd {
	if a.cmds.StartDownload == nil {
		return nil
	}
	session, ok := player.Resolve(a.snap, false)
	if !ok {
		return nil
	}
	name := download.Filename(session.ReciterName, session.SurahName)
	return a.cmds.StartDownload(session.URL, name)
}

// paneItems returns the display rows of a pane.
func (a App) paneItems(pane int) []string {
	switch pane {
	case paneReciter:
		items := make([]string, len(a.snap.Reciters))
		for i, r := range a.snap.Reciters {
			items[i] = r.Name
		}
		return items
	case paneMoshaf:
		items := make([]string, len(a.snap.MoshafChoice))
		for i, m := range a.snap.MoshafChoice {
			items[i] = m.Name
		}
		return items
	case paneSurah:
		items := make([]string, len(a.snap.SurahChoice))
		for i, s := range a.snap.SurahChoice {
			items[i] = surahLabel(s.ID, s.Name)
		}
		return items
	}
	return nil
}

// alignCursors clamps every cursor to its option set and parks it on
// the committed selection where one exists, so a restored session
// opens with the cursor on the restored choice.
func (a *App) alignCursors() {
	for pane := range a.cursors {
		if n := len(a.paneItems(pane)); a.cursors[pane] >= n {
			a.cursors[pane] = 0
			if n > 0 {
				a.cursors[pane] = n - 1
			}
		}
	}
	if a.snap.Reciter != nil {
		for i, r := range a.snap.Reciters {
			if r.ID == a.snap.Reciter.ID {
				a.cursors[paneReciter] = i
				break
			}
		}
	}
	if a.snap.MoshafIndex >= 0 {
		a.cursors[paneMoshaf] = a.snap.MoshafIndex
	}
	if a.snap.Surah != nil {
		for i, s := range a.snap.SurahChoice {
			if s.ID == a.snap.Surah.ID {
				a.cursors[paneSurah] = i
				break
			}
		}
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return a.loc.T(KeyLoading) + "..."
	}

	contentHeight := a.height - 2 // player bar + status bar
	if a.errText != "" {
		contentHeight--
	}
	if contentHeight < 3 {
		contentHeight = 3
	}

	var content string
	if a.overlay.open {
		content = lipgloss.Place(a.width, contentHeight, lipgloss.Center, lipgloss.Center,
			a.overlay.view(a.loc))
	} else {
		paneWidth := a.width / paneCount
		titles := []string{a.loc.T(KeyReciters), a.loc.T(KeyMoshafs), a.loc.T(KeySuwar)}
		chosen := []int{a.chosenReciter(), a.snap.MoshafIndex, a.chosenSurah()}
		panes := make([]string, paneCount)
		for i := 0; i < paneCount; i++ {
			panes[i] = renderPane(titles[i], a.paneItems(i), a.cursors[i], chosen[i],
				a.pane == i, paneWidth, contentHeight, a.loc)
		}
		content = lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	}

	errorBar := ""
	if a.errText != "" {
		errorBar = ErrorStyle.Width(a.width).Render(a.errText) + "\n"
	}

	return content + "\n" + errorBar + a.playerBar() + "\n" + a.statusBar()
}

func (a App) chosenReciter() int {
	if a.snap.Reciter == nil {
		return -1
	}
	for i, r := range a.snap.Reciters {
		if r.ID == a.snap.Reciter.ID {
			return i
		}
	}
	return -1
}

func (a App) chosenSurah() int {
	if a.snap.Surah == nil {
		return -1
	}
	for i, s := range a.snap.SurahChoice {
		if s.ID == a.snap.Surah.ID {
			return i
		}
	}
	return -1
}

// playerBar shows the current track and position, or download
// progress while one is running.
func (a App) playerBar() string {
	if a.downloading {
		line := fmt.Sprintf("%s  %s  %s", a.loc.T(KeyDownloading),
			a.bar.ViewAs(float64(a.dl.Percent)/100),
			humanize.Bytes(uint64(a.dl.Received)))
		if a.dl.Indeterminate {
			line += " ~"
		}
		return PlayerBar.Width(a.width).Render(line)
	}
	if a.snap.Surah == nil || a.snap.Reciter == nil {
		return PlayerBar.Width(a.width).Render("")
	}
	line := fmt.Sprintf("♪ %s · %s  %s / %s", a.snap.Reciter.Name, a.snap.Surah.Name,
		FormatTime(a.position), FormatTime(a.duration))
	return PlayerBar.Width(a.width).Render(line)
}

func (a App) statusBar() string {
	left := a.loc.T(KeyHintKeys)
	if a.notice != "" {
		left = StatusBarKey.Render(a.notice) + "  " + left
	}
	if a.loading > 0 {
		left = a.spin.View() + " " + a.loc.T(KeyLoading) + "  " + left
	}
	return StatusBar.Width(a.width).Render(left)
}

// Pane returns the focused pane index (for testing).
func (a App) Pane() int { return a.pane }

// Cursor returns the cursor row of the focused pane (for testing).
func (a App) Cursor() int { return a.cursors[a.pane] }

// Snapshot returns the current selection state (for testing).
func (a App) Snapshot() selection.Snapshot { return a.snap }

// SearchOpen reports whether the search overlay is up (for testing).
func (a App) SearchOpen() bool { return a.overlay.open }

// SearchResults returns the current overlay results (for testing).
func (a App) SearchResults() []catalog.Reciter { return a.overlay.results }
