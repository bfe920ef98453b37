package selection

import (
	"sync"
	"testing"

	"github.com/hamidallah2/quran/internal/catalog"
	"github.com/hamidallah2/quran/internal/store"
)

func newTestPrefs(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fullSuwar() []catalog.Surah {
	suwar := make([]catalog.Surah, 0, catalog.SurahCount)
	for i := 1; i <= catalog.SurahCount; i++ {
		suwar = append(suwar, catalog.Surah{ID: i, Name: "surah"})
	}
	return suwar
}

func testCatalog() []catalog.Reciter {
	return []catalog.Reciter{
		{
			ID:   5,
			Name: "أحمد العجمي",
			Moshaf: []catalog.Moshaf{
				{Name: "مرتل", Server: "https://example.com/a/", SurahList: ""},
				{Name: "حفص", Server: "https://example.com/b/", SurahList: "2,36"},
			},
		},
		{ID: 9, Name: "مشاري العفاسي", Moshaf: nil},
	}
}

func TestMoshafRestrictsSurahOptions(t *testing.T) {
	c := New(newTestPrefs(t))
	c.SetCatalog(testCatalog())
	c.SetSuwar(fullSuwar())

	c.SelectReciter(5)
	c.SelectMoshaf(1)

	snap := c.Snapshot()
	if len(snap.SurahChoice) != 2 {
		t.Fatalf("expected surah options restricted to 2 entries, got %d", len(snap.SurahChoice))
	}
	if snap.SurahChoice[0].ID != 2 || snap.SurahChoice[1].ID != 36 {
		t.Errorf("expected ids {2,36}, got {%d,%d}", snap.SurahChoice[0].ID, snap.SurahChoice[1].ID)
	}
}

func TestFullCatalogWithoutMoshaf(t *testing.T) {
	c := New(newTestPrefs(t))
	c.SetCatalog(testCatalog())
	c.SetSuwar(fullSuwar())

	snap := c.Snapshot()
	if len(snap.SurahChoice) != catalog.SurahCount {
		t.Errorf("no moshaf selected: expected full catalog, got %d", len(snap.SurahChoice))
	}
}

func TestDeepRestore(t *testing.T) {
	prefs := newTestPrefs(t)
	prefs.Set(store.KeyReciter, "5")
	prefs.Set(store.KeyMoshaf, "1")
	prefs.Set(store.KeySurah, "36")
	prefs.Set(store.KeyTime, "12.5")

	c := New(prefs)
	c.SetCatalog(testCatalog())
	c.SetSuwar(fullSuwar())

	snap := c.Snapshot()
	if snap.Reciter == nil || snap.Reciter.ID != 5 {
		t.Fatalf("reciter not restored: %+v", snap.Reciter)
	}
	if snap.MoshafIndex != 1 {
		t.Fatalf("moshaf not restored: index %d", snap.MoshafIndex)
	}
	if snap.Surah == nil || snap.Surah.ID != 36 {
		t.Fatalf("surah not restored: %+v", snap.Surah)
	}
	if snap.StartOffset != 12.5 {
		t.Errorf("expected saved offset 12.5, got %v", snap.StartOffset)
	}
	if !snap.Restored {
		t.Error("snapshot should be flagged as restored")
	}
}

func TestRestoreStopsAtMissingMoshaf(t *testing.T) {
	prefs := newTestPrefs(t)
	prefs.Set(store.KeyReciter, "5")
	prefs.Set(store.KeyMoshaf, "7") // index no longer exists
	prefs.Set(store.KeySurah, "36")

	c := New(prefs)
	c.SetCatalog(testCatalog())
	c.SetSuwar(fullSuwar())

	snap := c.Snapshot()
	if snap.Reciter == nil || snap.Reciter.ID != 5 {
		t.Fatal("reciter stage should still restore")
	}
	if snap.MoshafIndex != -1 {
		t.Errorf("moshaf stage should be left unselected, got index %d", snap.MoshafIndex)
	}
	if snap.Surah != nil {
		t.Errorf("surah stage should be left unselected, got %+v", snap.Surah)
	}
}

func TestRestoreSkipsVanishedReciter(t *testing.T) {
	prefs := newTestPrefs(t)
	prefs.Set(store.KeyReciter, "999")

	c := New(prefs)
	c.SetCatalog(testCatalog())

	if snap := c.Snapshot(); snap.Reciter != nil {
		t.Errorf("vanished reciter should not restore, got %+v", snap.Reciter)
	}
}

func TestUserTransitionClearsDownstream(t *testing.T) {
	prefs := newTestPrefs(t)
	c := New(prefs)
	c.SetCatalog(testCatalog())
	c.SetSuwar(fullSuwar())

	c.SelectReciter(5)
	c.SelectMoshaf(1)
	c.SelectSurah(36)

	if _, ok, _ := prefs.Get(store.KeySurah); !ok {
		t.Fatal("surah selection should be persisted")
	}

	// Changing the reciter drops every downstream key.
	c.SelectReciter(9)
	if _, ok, _ := prefs.Get(store.KeyMoshaf); ok {
		t.Error("moshaf key should be cleared")
	}
	if _, ok, _ := prefs.Get(store.KeySurah); ok {
		t.Error("surah key should be cleared")
	}
	if _, ok, _ := prefs.Get(store.KeyTime); ok {
		t.Error("time key should be cleared")
	}

	snap := c.Snapshot()
	if snap.MoshafIndex != -1 || snap.Surah != nil {
		t.Error("downstream selection state should be reset")
	}
}

func TestEmptyMoshafListStaysInteractable(t *testing.T) {
	c := New(newTestPrefs(t))
	c.SetCatalog(testCatalog())
	c.SetSuwar(fullSuwar())

	c.SelectReciter(9) // no moshaf entries
	snap := c.Snapshot()
	if snap.Reciter == nil || snap.Reciter.ID != 9 {
		t.Fatal("reciter should be selected")
	}
	if len(snap.MoshafChoice) != 0 {
		t.Errorf("expected empty moshaf options, got %d", len(snap.MoshafChoice))
	}

	// Selecting an out-of-range moshaf is a clean unselect, not a crash.
	c.SelectMoshaf(3)
	if snap := c.Snapshot(); snap.MoshafIndex != -1 {
		t.Errorf("invalid moshaf index should unselect, got %d", snap.MoshafIndex)
	}
}

func TestSuwarArrivingAfterMoshafContinuesChain(t *testing.T) {
	prefs := newTestPrefs(t)
	prefs.Set(store.KeyReciter, "5")
	prefs.Set(store.KeyMoshaf, "1")
	prefs.Set(store.KeySurah, "2")

	c := New(prefs)
	c.SetCatalog(testCatalog())

	// Moshaf restored but surah catalog not loaded yet.
	if snap := c.Snapshot(); snap.MoshafIndex != 1 || snap.Surah != nil {
		t.Fatalf("expected moshaf restored and surah pending, got %+v", snap)
	}

	c.SetSuwar(fullSuwar())
	if snap := c.Snapshot(); snap.Surah == nil || snap.Surah.ID != 2 {
		t.Errorf("surah restore should continue once the catalog arrives, got %+v", snap.Surah)
	}
}

func TestSelectSurahOutsideOptions(t *testing.T) {
	c := New(newTestPrefs(t))
	c.SetCatalog(testCatalog())
	c.SetSuwar(fullSuwar())
	c.SelectReciter(5)
	c.SelectMoshaf(1) // allows only 2 and 36

	c.SelectSurah(50)
	if snap := c.Snapshot(); snap.Surah != nil {
		t.Errorf("surah outside the moshaf's set should not select, got %+v", snap.Surah)
	}
}

func TestOnChangeNotifications(t *testing.T) {
	c := New(newTestPrefs(t))

	var got []Snapshot
	c.OnChange(func(s Snapshot) { got = append(got, s) })

	c.SetCatalog(testCatalog())
	c.SetSuwar(fullSuwar())
	c.SelectReciter(5)

	if len(got) < 3 {
		t.Fatalf("expected a notification per transition, got %d", len(got))
	}
	last := got[len(got)-1]
	if last.Reciter == nil || last.Reciter.ID != 5 {
		t.Errorf("last snapshot should carry the selected reciter")
	}
}

func TestConcurrentCatalogLoads(t *testing.T) {
	c := New(newTestPrefs(t))
	c.OnChange(func(Snapshot) {})

	// The two catalog fetches and a user selection can all land at
	// once; every transition must still run to completion alone.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			c.SetCatalog(testCatalog())
		}()
		go func() {
			defer wg.Done()
			c.SetSuwar(fullSuwar())
		}()
		go func() {
			defer wg.Done()
			c.SelectReciter(5)
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if len(snap.Reciters) != 2 {
		t.Errorf("catalog lost under concurrent loads: %d reciters", len(snap.Reciters))
	}
	if len(snap.SurahChoice) == 0 {
		t.Error("surah options lost under concurrent loads")
	}
}
