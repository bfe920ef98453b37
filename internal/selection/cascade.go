// Package selection implements the three-stage dependent selection:
// reciter, then moshaf, then surah. Each stage's option set depends on
// the stage above it; changing a stage resets everything downstream.
//
// The cascade owns the catalog and selection state exclusively (no
// ambient globals). Other components read it through Snapshot values.
package selection

import (
	"sync"

	"github.com/hamidallah2/quran/internal/catalog"
	"github.com/hamidallah2/quran/internal/logging"
	"github.com/hamidallah2/quran/internal/store"
)

// Prefs is the persisted preference surface the cascade needs.
// *store.Store satisfies it.
type Prefs interface {
	Get(key string) (string, bool, error)
	GetInt(key string) (int, bool, error)
	GetFloat(key string) (float64, bool, error)
	Set(key, value string) error
	SetInt(key string, n int) error
	SetFloat(key string, f float64) error
	Delete(keys ...string) error
}

// Snapshot is a read-only view of the cascade handed to subscribers.
// Pointers reference the cascade's catalog copy; treat as immutable.
type Snapshot struct {
	Reciters     []catalog.Reciter
	MoshafChoice []catalog.Moshaf
	SurahChoice  []catalog.Surah

	Reciter     *catalog.Reciter
	MoshafIndex int // -1 when unselected
	Moshaf      *catalog.Moshaf
	Surah       *catalog.Surah

	// StartOffset is the saved playback position in seconds, non-zero
	// only when the surah selection came from a persisted restore.
	StartOffset float64
	// Restored marks a selection reached via persisted auto-resume
	// rather than direct user action.
	Restored bool
}

// Cascade is the dependent-selection state machine. Catalog loads and
// selections arrive on separate goroutines, so all state is guarded by
// mu and each transition runs to completion before the next one starts.
type Cascade struct {
	prefs Prefs

	mu       sync.Mutex
	reciters []catalog.Reciter
	suwar    []catalog.Surah

	reciter     *catalog.Reciter
	moshafIndex int
	surah       *catalog.Surah
	startOffset float64
	restored    bool

	onChange func(Snapshot)
}

// New creates an empty cascade persisting selections through prefs.
func New(prefs Prefs) *Cascade {
	return &Cascade{prefs: prefs, moshafIndex: -1}
}

// OnChange registers the subscriber notified after every transition.
// A single subscriber is enough here; the UI fans out. The callback
// runs with the cascade locked and must not call back into it.
func (c *Cascade) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Snapshot returns the current state.
func (c *Cascade) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Cascade) snapshot() Snapshot {
	snap := Snapshot{
		Reciters:     c.reciters,
		MoshafChoice: c.moshafOptions(),
		SurahChoice:  c.surahOptions(),
		Reciter:      c.reciter,
		MoshafIndex:  c.moshafIndex,
		Surah:        c.surah,
		StartOffset:  c.startOffset,
		Restored:     c.restored,
	}
	if m := c.moshaf(); m != nil {
		snap.Moshaf = m
	}
	return snap
}

// SetCatalog replaces the reciter catalog wholesale and resets all
// selection state, then attempts a deep restore from persisted
// preferences. Call it on every successful reciter fetch.
func (c *Cascade) SetCatalog(reciters []catalog.Reciter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reciters = reciters
	c.reciter = nil
	c.moshafIndex = -1
	c.surah = nil
	c.startOffset = 0
	c.restored = false

	if id, ok := c.savedInt(store.KeyReciter); ok {
		if catalog.FindReciter(c.reciters, id) != nil {
			logging.Debug("restoring persisted reciter", "id", id)
			c.applyReciter(id, true)
			return
		}
		logging.Debug("persisted reciter no longer in catalog", "id", id)
	}
	c.notify()
}

// SetSuwar installs the global surah catalog. If a moshaf is already
// selected this recomputes the surah stage and attempts to restore a
// persisted surah, continuing the deep-resume chain.
func (c *Cascade) SetSuwar(suwar []catalog.Surah) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.suwar = suwar
	if c.moshaf() != nil {
		c.restoreSurah()
		return
	}
	c.notify()
}

// SelectReciter is the user-originated reciter transition: persist the
// choice, drop downstream persisted state, repopulate the moshaf stage.
// An id that does not resolve clears the stage.
func (c *Cascade) SelectReciter(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.persistInt(store.KeyReciter, id)
	c.clearPersisted(store.KeyMoshaf, store.KeySurah, store.KeyTime)
	c.applyReciter(id, false)
}

// SelectMoshaf is the user-originated moshaf transition. The index
// addresses the selected reciter's moshaf list; -1 unselects.
func (c *Cascade) SelectMoshaf(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.persistInt(store.KeyMoshaf, index)
	c.clearPersisted(store.KeySurah, store.KeyTime)
	c.applyMoshaf(index, false)
}

// SelectSurah is the user-originated surah transition. An id outside
// the current option set unselects (the player hides).
func (c *Cascade) SelectSurah(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.persistInt(store.KeySurah, id)
	c.clearPersisted(store.KeyTime)
	c.applySurah(id, false)
}

// applyReciter resolves the reciter stage and cascades downstream.
func (c *Cascade) applyReciter(id int, restoring bool) {
	c.reciter = catalog.FindReciter(c.reciters, id)
	c.moshafIndex = -1
	c.surah = nil
	c.startOffset = 0
	c.restored = restoring

	if c.reciter == nil {
		c.notify()
		return
	}

	// A persisted moshaf index only survives here on the restore path;
	// user transitions cleared it above.
	if idx, ok := c.savedInt(store.KeyMoshaf); ok && idx >= 0 && idx < len(c.reciter.Moshaf) {
		c.applyMoshaf(idx, true)
		return
	}
	c.notify()
}

// applyMoshaf resolves the moshaf stage and cascades downstream.
func (c *Cascade) applyMoshaf(index int, restoring bool) {
	c.surah = nil
	c.startOffset = 0
	c.restored = restoring

	if c.reciter == nil || index < 0 || index >= len(c.reciter.Moshaf) {
		c.moshafIndex = -1
		c.notify()
		return
	}
	c.moshafIndex = index

	if c.suwar == nil {
		// Surah catalog not loaded yet; SetSuwar continues the chain.
		c.notify()
		return
	}
	c.restoreSurah()
}

// restoreSurah attempts to auto-select a persisted surah against the
// freshly computed option set, picking up the saved offset for resume.
func (c *Cascade) restoreSurah() {
	if id, ok := c.savedInt(store.KeySurah); ok {
		if catalog.FindSurah(c.surahOptions(), id) != nil {
			c.surah = catalog.FindSurah(c.suwar, id)
			c.startOffset = c.savedOffset()
			c.restored = true
			logging.Debug("restoring persisted surah", "id", id, "offset", c.startOffset)
			c.notify()
			return
		}
		logging.Debug("persisted surah not in option set", "id", id)
	}
	c.surah = nil
	c.startOffset = 0
	c.notify()
}

// applySurah resolves the surah stage from a user action.
func (c *Cascade) applySurah(id int, restoring bool) {
	c.startOffset = 0
	c.restored = restoring
	if catalog.FindSurah(c.surahOptions(), id) == nil {
		c.surah = nil
		c.notify()
		return
	}
	c.surah = catalog.FindSurah(c.suwar, id)
	c.notify()
}

// moshaf returns the selected moshaf, nil when unresolved.
func (c *Cascade) moshaf() *catalog.Moshaf {
	if c.reciter == nil || c.moshafIndex < 0 || c.moshafIndex >= len(c.reciter.Moshaf) {
		return nil
	}
	return &c.reciter.Moshaf[c.moshafIndex]
}

// moshafOptions is the stage-two option set: the selected reciter's
// moshaf list, empty with no reciter. A reciter with a malformed or
// empty list yields an empty set, never an error - the stage stays
// interactable either way.
func (c *Cascade) moshafOptions() []catalog.Moshaf {
	if c.reciter == nil {
		return nil
	}
	return c.reciter.Moshaf
}

// surahOptions is the stage-three option set: the global catalog
// intersected with the selected moshaf's surah list, or the full
// catalog when no moshaf is selected.
func (c *Cascade) surahOptions() []catalog.Surah {
	m := c.moshaf()
	if m == nil {
		return c.suwar
	}
	return m.FilterSurahs(c.suwar)
}

func (c *Cascade) savedInt(key string) (int, bool) {
	n, ok, err := c.prefs.GetInt(key)
	if err != nil {
		logging.Warn("pref read failed", "key", key, "error", err)
		return 0, false
	}
	return n, ok
}

func (c *Cascade) savedOffset() float64 {
	f, ok, err := c.prefs.GetFloat(store.KeyTime)
	if err != nil || !ok {
		return 0
	}
	return f
}

// persistInt writes a selection; persistence failures are logged,
// never allowed to block interaction.
func (c *Cascade) persistInt(key string, n int) {
	if err := c.prefs.SetInt(key, n); err != nil {
		logging.Warn("pref write failed", "key", key, "error", err)
	}
}

func (c *Cascade) clearPersisted(keys ...string) {
	if err := c.prefs.Delete(keys...); err != nil {
		logging.Warn("pref clear failed", "keys", keys, "error", err)
	}
}

func (c *Cascade) notify() {
	if c.onChange != nil {
		c.onChange(c.snapshot())
	}
}
