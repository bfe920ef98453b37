// Package catalog defines the reciter, moshaf, and surah data model.
//
// Catalog data arrives from the remote API and is treated as immutable for
// the session: a reload replaces it wholesale.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// SurahCount is the number of chapters in the Quran.
const SurahCount = 114

// Reciter is a named individual with one or more recitation styles.
type Reciter struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Moshaf []Moshaf `json:"moshaf"`
}

// Moshaf is one recitation style (riwaya) of a reciter. It has no stable
// id of its own; it is addressed by position within the reciter's list.
type Moshaf struct {
	Name string `json:"name"`
	// Server is the base URL tracks are served from.
	Server string `json:"server"`
	// SurahList is the comma-delimited set of available surah ids, as the
	// API encodes it (e.g. "1,2,36,114").
	SurahList string `json:"surah_list"`
}

// Surah is one chapter of the global catalog, id 1..114.
type Surah struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SurahSet parses the moshaf's delimited surah list into a lookup set.
// Malformed entries are skipped rather than failing the whole moshaf:
// a bad payload must never block the selection flow.
func (m Moshaf) SurahSet() map[int]bool {
	set := make(map[int]bool)
	for _, field := range strings.Split(m.SurahList, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.Atoi(field)
		if err != nil || id < 1 || id > SurahCount {
			continue
		}
		set[id] = true
	}
	return set
}

// TrackURL builds the media URL for a surah: the server base plus the id
// left-padded to three digits, e.g. surah 7 -> <server>007.mp3.
func (m Moshaf) TrackURL(surahID int) string {
	return fmt.Sprintf("%s%03d.mp3", m.Server, surahID)
}

// FilterSurahs returns the subset of the global catalog this moshaf can
// play, preserving catalog order. A moshaf with no parseable surah list
// yields an empty result.
func (m Moshaf) FilterSurahs(all []Surah) []Surah {
	set := m.SurahSet()
	out := make([]Surah, 0, len(set))
	for _, s := range all {
		if set[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// FindReciter locates a reciter by id, returning nil if absent.
func FindReciter(reciters []Reciter, id int) *Reciter {
	for i := range reciters {
		if reciters[i].ID == id {
			return &reciters[i]
		}
	}
	return nil
}

// FindSurah locates a surah by id, returning nil if absent.
func FindSurah(suwar []Surah, id int) *Surah {
	for i := range suwar {
		if suwar[i].ID == id {
			return &suwar[i]
		}
	}
	return nil
}
