package catalog

import "testing"

func TestSurahSet(t *testing.T) {
	tests := []struct {
		name string
		list string
		want []int
	}{
		{"simple", "1,2,36", []int{1, 2, 36}},
		{"whitespace", " 1 , 114 ", []int{1, 114}},
		{"empty", "", nil},
		{"garbage entries skipped", "1,x,3,", []int{1, 3}},
		{"out of range skipped", "0,5,115,999", []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Moshaf{SurahList: tt.list}
			set := m.SurahSet()
			if len(set) != len(tt.want) {
				t.Fatalf("got %d ids, want %d (%v)", len(set), len(tt.want), set)
			}
			for _, id := range tt.want {
				if !set[id] {
					t.Errorf("missing id %d", id)
				}
			}
		})
	}
}

func TestTrackURL(t *testing.T) {
	m := Moshaf{Server: "https://example.com/ahmad/"}

	if got := m.TrackURL(7); got != "https://example.com/ahmad/007.mp3" {
		t.Errorf("surah 7: got %s", got)
	}
	if got := m.TrackURL(114); got != "https://example.com/ahmad/114.mp3" {
		t.Errorf("surah 114: got %s", got)
	}
	if got := m.TrackURL(36); got != "https://example.com/ahmad/036.mp3" {
		t.Errorf("surah 36: got %s", got)
	}
}

func TestFilterSurahs(t *testing.T) {
	all := make([]Surah, 0, SurahCount)
	for i := 1; i <= SurahCount; i++ {
		all = append(all, Surah{ID: i})
	}

	m := Moshaf{SurahList: "2,36"}
	got := m.FilterSurahs(all)
	if len(got) != 2 {
		t.Fatalf("expected 2 surahs, got %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 36 {
		t.Errorf("expected ids [2 36] in catalog order, got [%d %d]", got[0].ID, got[1].ID)
	}

	// Malformed list filters everything out rather than erroring.
	bad := Moshaf{SurahList: "not,a,list"}
	if got := bad.FilterSurahs(all); len(got) != 0 {
		t.Errorf("malformed list should yield no surahs, got %d", len(got))
	}
}

func TestFindReciter(t *testing.T) {
	reciters := []Reciter{{ID: 5, Name: "a"}, {ID: 9, Name: "b"}}

	if r := FindReciter(reciters, 9); r == nil || r.Name != "b" {
		t.Errorf("expected reciter b, got %+v", r)
	}
	if r := FindReciter(reciters, 42); r != nil {
		t.Errorf("expected nil for unknown id, got %+v", r)
	}
}
