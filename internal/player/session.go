// Package player turns a fully-resolved selection into a playback
// session and drives an external audio player with it.
package player

import (
	"github.com/hamidallah2/quran/internal/selection"
)

// Session is the configuration for one playback. Derived, never
// persisted; superseded whenever the selection changes.
type Session struct {
	URL         string
	SurahName   string
	ReciterName string
	Autoplay    bool
	StartOffset float64 // seconds
}

// Resolve builds a Session from the selection snapshot. It requires a
// resolved surah, a moshaf with a server base, and a reciter name;
// anything missing returns ok=false - the normal "incomplete selection"
// case, not an error. The caller hides and stops the player on false.
func Resolve(snap selection.Snapshot, autoplay bool) (Session, bool) {
	if snap.Surah == nil || snap.Moshaf == nil || snap.Reciter == nil {
		return Session{}, false
	}
	if snap.Moshaf.Server == "" {
		return Session{}, false
	}

	return Session{
		URL:         snap.Moshaf.TrackURL(snap.Surah.ID),
		SurahName:   snap.Surah.Name,
		ReciterName: snap.Reciter.Name,
		Autoplay:    autoplay,
		StartOffset: snap.StartOffset,
	}, true
}
