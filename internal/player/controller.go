package player

import (
	"math"
	"sync"

	"github.com/hamidallah2/quran/internal/logging"
	"github.com/hamidallah2/quran/internal/selection"
	"github.com/hamidallah2/quran/internal/store"
)

// Controller owns the single current playback session. Applying a new
// snapshot supersedes the previous session: at most one is ever live.
// Transitions arrive from the selection cascade's goroutines and time
// updates from the backend's read loop, so mu guards the session state.
type Controller struct {
	player Player
	prefs  selection.Prefs

	mu      sync.Mutex
	current *Session
	playing bool
	onTime  func(seconds float64)
}

// NewController wires a player backend and the preference store used
// to persist the playback position.
func NewController(p Player, prefs selection.Prefs) *Controller {
	c := &Controller{player: p, prefs: prefs}
	p.OnTimeUpdate(c.saveTime)
	return c
}

// Current returns the live session, nil when playback is hidden.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// OnTimeUpdate registers a subscriber for playback position updates,
// called after the position has been persisted.
func (c *Controller) OnTimeUpdate(fn func(seconds float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTime = fn
}

// TogglePause flips playback on the current session. No session, no
// effect.
func (c *Controller) TogglePause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return
	}
	if c.playing {
		if err := c.player.Pause(); err != nil {
			logging.Warn("pause failed", "error", err)
			return
		}
		c.playing = false
		return
	}
	if err := c.player.Play(); err != nil {
		logging.Warn("resume failed", "error", err)
		return
	}
	c.playing = true
}

// Apply resolves the snapshot into a session and reconfigures the
// player. An unresolvable snapshot stops playback and clears the
// session (the incomplete-selection case).
func (c *Controller) Apply(snap selection.Snapshot, autoplay bool) {
	sess, ok := Resolve(snap, autoplay)
	if !ok {
		c.Teardown()
		return
	}
	c.start(sess)
}

// start tears down the previous session and configures the new one.
// The metadata callback fires on the backend's read loop, so playing
// is updated under the lock, never while it is held across a player
// call.
func (c *Controller) start(sess Session) {
	c.mu.Lock()
	prev := c.current
	c.current = &sess
	c.playing = false
	c.mu.Unlock()

	if prev != nil {
		if err := c.player.Stop(); err != nil {
			logging.Warn("stopping previous session failed", "error", err)
		}
	}

	// Seeking is only defined once the player has the media metadata,
	// so the start offset waits for that notification.
	c.player.OnMetadataLoaded(func() {
		if sess.StartOffset > 0 {
			if err := c.player.Seek(sess.StartOffset); err != nil {
				logging.Warn("seek to saved position failed", "offset", sess.StartOffset, "error", err)
			}
		}
		if sess.Autoplay {
			if err := c.player.Play(); err != nil {
				// Expected when the backend refuses to start; never
				// surfaced, never retried.
				logging.Debug("autoplay rejected", "error", err)
			} else {
				c.mu.Lock()
				c.playing = true
				c.mu.Unlock()
			}
		}
	})

	if err := c.player.Load(sess.URL, sess.SurahName); err != nil {
		logging.Error("loading media failed", "url", sess.URL, "error", err)
		c.mu.Lock()
		c.current = nil
		c.mu.Unlock()
		return
	}
	logging.Info("playback session configured",
		"surah", sess.SurahName, "reciter", sess.ReciterName, "offset", sess.StartOffset)
}

// Teardown stops playback and clears the current session.
func (c *Controller) Teardown() {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.playing = false
	c.mu.Unlock()

	if err := c.player.Stop(); err != nil {
		logging.Warn("stop failed", "error", err)
	}
}

// saveTime persists the playback position so the next session can
// resume from it. Positions are kept to two decimals.
func (c *Controller) saveTime(seconds float64) {
	c.mu.Lock()
	live := c.current != nil
	fn := c.onTime
	c.mu.Unlock()
	if !live {
		return
	}
	if err := c.prefs.SetFloat(store.KeyTime, math.Round(seconds*100)/100); err != nil {
		logging.Warn("saving playback position failed", "error", err)
	}
	if fn != nil {
		fn(seconds)
	}
}
