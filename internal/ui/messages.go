// Package ui provides the Bubble Tea TUI for the reciter browser.
package ui

import (
	"github.com/hamidallah2/quran/internal/catalog"
	"github.com/hamidallah2/quran/internal/download"
	"github.com/hamidallah2/quran/internal/selection"
)

// RecitersLoaded is sent when the reciter catalog fetch finishes.
type RecitersLoaded struct {
	Reciters []catalog.Reciter
	Err      error
}

// SuwarLoaded is sent when the surah catalog fetch finishes.
type SuwarLoaded struct {
	Suwar []catalog.Surah
	Err   error
}

// SelectionChanged carries the cascade state after every transition.
// The App never talks to the cascade directly; it receives snapshots.
type SelectionChanged struct {
	Snap selection.Snapshot
}

// DownloadProgressMsg is sent for each progress report of the active
// download.
type DownloadProgressMsg struct {
	Progress download.Progress
}

// DownloadFinished is sent when a download completes or fails. An
// empty Path with nil Err means the request was a no-op (one was
// already running).
type DownloadFinished struct {
	Path string
	Err  error
}

// PlaybackTick carries the player position. Sent on every time-update
// from the player process.
type PlaybackTick struct {
	Position float64
	Duration float64
}

// searchDebounced fires when the search input has been quiet long
// enough. Stale sequence numbers are dropped.
type searchDebounced struct {
	seq int
}
