package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hamidallah2/quran/internal/catalog"
	"github.com/hamidallah2/quran/internal/download"
	"github.com/hamidallah2/quran/internal/selection"
)

// mockCmds records which command functions fired and with what.
type mockCmds struct {
	loadedReciters bool
	loadedSuwar    bool
	reciterID      int
	moshafIndex    int
	surahID        int
	downloadURL    string
	downloadName   string
}

func (m *mockCmds) commands() Commands {
	m.reciterID = -1
	m.moshafIndex = -1
	m.surahID = -1
	return Commands{
		LoadReciters: func() tea.Cmd {
			m.loadedReciters = true
			return func() tea.Msg { return RecitersLoaded{Reciters: testReciters()} }
		},
		LoadSuwar: func() tea.Cmd {
			m.loadedSuwar = true
			return func() tea.Msg { return SuwarLoaded{Suwar: testSuwar()} }
		},
		SelectReciter: func(id int) tea.Cmd {
			m.reciterID = id
			return nil
		},
		SelectMoshaf: func(index int) tea.Cmd {
			m.moshafIndex = index
			return nil
		},
		SelectSurah: func(id int) tea.Cmd {
			m.surahID = id
			return nil
		},
		StartDownload: func(url, filename string) tea.Cmd {
			m.downloadURL = url
			m.downloadName = filename
			return nil
		},
	}
}

func testReciters() []catalog.Reciter {
	return []catalog.Reciter{
		{ID: 1, Name: "عبد الباسط عبد الصمد", Moshaf: []catalog.Moshaf{
			{Name: "مرتل", Server: "https://server.example/basit/", SurahList: "1,2,36"},
		}},
		{ID: 2, Name: "محمود خليل الحصري", Moshaf: []catalog.Moshaf{
			{Name: "مرتل", Server: "https://server.example/husary/", SurahList: "1,2"},
		}},
		{ID: 3, Name: "أحمد العجمي", Moshaf: nil},
	}
}

func testSuwar() []catalog.Surah {
	return []catalog.Surah{
		{ID: 1, Name: "الفاتحة"},
		{ID: 2, Name: "البقرة"},
		{ID: 36, Name: "يس"},
	}
}

func newTestApp(m *mockCmds) App {
	return NewApp(NewLocalization("en"), 300*time.Millisecond, m.commands())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func snapshotFor(reciters []catalog.Reciter, suwar []catalog.Surah) selection.Snapshot {
	return selection.Snapshot{
		Reciters:    reciters,
		SurahChoice: suwar,
		MoshafIndex: -1,
	}
}

func TestAppInit(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	if cmd := app.Init(); cmd == nil {
		t.Fatal("Init should return a command")
	}
	if !mock.loadedReciters || !mock.loadedSuwar {
		t.Error("Init should start both catalog fetches")
	}
}

func TestAppNavigationAndCommit(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	model, _ := app.Update(SelectionChanged{Snap: snapshotFor(testReciters(), testSuwar())})
	a := model.(App)

	model, _ = a.Update(key("j"))
	a = model.(App)
	if a.Cursor() != 1 {
		t.Errorf("j should move cursor to 1, got %d", a.Cursor())
	}

	model, _ = a.Update(key("k"))
	a = model.(App)
	model, _ = a.Update(key("k"))
	a = model.(App)
	if a.Cursor() != 0 {
		t.Errorf("k at top should keep cursor at 0, got %d", a.Cursor())
	}

	model, _ = a.Update(key("down"))
	a = model.(App)
	model, cmd := a.Update(key("enter"))
	a = model.(App)
	if cmd != nil {
		cmd()
	}
	if mock.reciterID != 2 {
		t.Errorf("enter should select reciter 2, got %d", mock.reciterID)
	}
	if a.Pane() != paneMoshaf {
		t.Errorf("committing a reciter should focus the moshaf pane, got %d", a.Pane())
	}
}

func TestAppPaneSwitching(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	model, _ := app.Update(key("tab"))
	a := model.(App)
	if a.Pane() != paneMoshaf {
		t.Errorf("tab should focus pane 1, got %d", a.Pane())
	}
	model, _ = a.Update(key("tab"))
	a = model.(App)
	model, _ = a.Update(key("tab"))
	a = model.(App)
	if a.Pane() != paneReciter {
		t.Errorf("tab should wrap back to pane 0, got %d", a.Pane())
	}
}

func TestSurahCommit(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	snap := snapshotFor(testReciters(), testSuwar())
	model, _ := app.Update(SelectionChanged{Snap: snap})
	a := model.(App)

	model, _ = a.Update(key("tab"))
	a = model.(App)
	model, _ = a.Update(key("tab"))
	a = model.(App)
	model, _ = a.Update(key("down"))
	a = model.(App)
	model, _ = a.Update(key("down"))
	a = model.(App)
	model, _ = a.Update(key("enter"))
	a = model.(App)
	if mock.surahID != 36 {
		t.Errorf("enter on third surah should select 36, got %d", mock.surahID)
	}
}

func TestSelectionChangedAlignsCursors(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	reciters := testReciters()
	snap := selection.Snapshot{
		Reciters:     reciters,
		MoshafChoice: reciters[1].Moshaf,
		SurahChoice:  testSuwar()[:2],
		Reciter:      &reciters[1],
		MoshafIndex:  0,
		Surah:        &testSuwar()[1],
		Restored:     true,
	}
	model, _ := app.Update(SelectionChanged{Snap: snap})
	a := model.(App)

	if got := a.cursors[paneReciter]; got != 1 {
		t.Errorf("reciter cursor = %d, want 1", got)
	}
	if got := a.cursors[paneSurah]; got != 1 {
		t.Errorf("surah cursor = %d, want 1", got)
	}
}

func TestDownloadKeyResolvesTrack(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	reciters := testReciters()
	suwar := testSuwar()
	snap := selection.Snapshot{
		Reciters:     reciters,
		MoshafChoice: reciters[0].Moshaf,
		SurahChoice:  suwar,
		Reciter:      &reciters[0],
		MoshafIndex:  0,
		Moshaf:       &reciters[0].Moshaf[0],
		Surah:        &suwar[2],
	}
	model, _ := app.Update(SelectionChanged{Snap: snap})
	a := model.(App)

	model, _ = a.Update(key("d"))
	a = model.(App)
	if mock.downloadURL != "https://server.example/basit/036.mp3" {
		t.Errorf("download URL = %q", mock.downloadURL)
	}
	if mock.downloadName == "" {
		t.Error("download filename should be composed from the selection")
	}
}

func TestDownloadKeyIncompleteSelectionIsNoOp(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	model, _ := app.Update(SelectionChanged{Snap: snapshotFor(testReciters(), testSuwar())})
	a := model.(App)
	model, _ = a.Update(key("d"))
	_ = model
	if mock.downloadURL != "" {
		t.Errorf("download should not start without a resolved track, got %q", mock.downloadURL)
	}
}

func TestDownloadProgressLifecycle(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	model, _ := app.Update(DownloadProgressMsg{Progress: download.Progress{
		Received: 1 << 20, Total: 2 << 20, Percent: 50,
	}})
	a := model.(App)
	if !a.downloading {
		t.Error("progress message should mark a download active")
	}

	model, _ = a.Update(DownloadFinished{Path: "/tmp/x.mp3"})
	a = model.(App)
	if a.downloading {
		t.Error("finish message should clear the download state")
	}
	if a.errText != "" {
		t.Errorf("successful download should not set an error, got %q", a.errText)
	}

	model, _ = a.Update(DownloadFinished{Err: errFake})
	a = model.(App)
	if a.errText == "" {
		t.Error("failed download should surface a message")
	}
}

func TestErrorClearedOnKeyPress(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	model, _ := app.Update(RecitersLoaded{Err: errFake})
	a := model.(App)
	if a.errText == "" {
		t.Fatal("fetch failure should set an error")
	}
	model, _ = a.Update(key("j"))
	a = model.(App)
	if a.errText != "" {
		t.Error("key press should dismiss the error")
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (*fakeError) Error() string { return "boom" }

func TestDownloadCoalescedFinishKeepsProgress(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	model, _ := app.Update(DownloadProgressMsg{Progress: download.Progress{
		Received: 1 << 20, Total: 2 << 20, Percent: 50,
	}})
	a := model.(App)

	// A second request while one runs reports an empty finish; the
	// running download keeps its state.
	model, _ = a.Update(DownloadFinished{})
	a = model.(App)
	if !a.downloading {
		t.Error("coalesced finish must not clear the active download")
	}
	if a.dl.Percent != 50 {
		t.Errorf("coalesced finish wiped progress: %v", a.dl.Percent)
	}
}

func TestDownloadSuccessShowsNotice(t *testing.T) {
	mock := &mockCmds{}
	app := newTestApp(mock)

	model, _ := app.Update(DownloadFinished{Path: "/tmp/036.mp3"})
	a := model.(App)
	if a.notice == "" {
		t.Fatal("successful download should surface a notice")
	}

	model, _ = a.Update(key("j"))
	a = model.(App)
	if a.notice != "" {
		t.Error("notice should clear on the next key press")
	}
}
