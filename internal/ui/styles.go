package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("36")  // Teal
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("214") // Amber
	colorError     = lipgloss.Color("196") // Red
)

// PaneTitle style for pane headers.
var PaneTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// PaneTitleInactive style for headers of unfocused panes.
var PaneTitleInactive = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// SelectedItem style for the cursor row in the focused pane.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// ChosenItem style for the committed selection in an unfocused pane.
var ChosenItem = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Padding(0, 1)

// NormalItem style for plain rows.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// MutedItem style for placeholder rows ("no results", empty panes).
var MutedItem = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 1)

// MatchStyle highlights the matched span of a search result.
var MatchStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for highlighted text in the status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// PlayerBar style for the playback line above the status bar.
var PlayerBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("238")).
	Padding(0, 1)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// OverlayBox frames the search overlay.
var OverlayBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)
