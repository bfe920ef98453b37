package search

import (
	"strings"

	"github.com/hamidallah2/quran/internal/catalog"
)

// Entry is one reciter with its precomputed normalized name.
type Entry struct {
	Reciter        catalog.Reciter
	NormalizedName string
}

// Index is a derived, denormalized copy of the reciter catalog keyed for
// substring search. Build a fresh Index on every catalog load and swap it
// in whole; entries are never updated in place.
type Index struct {
	entries []Entry
}

// NewIndex precomputes normalized names for the given catalog,
// preserving catalog order.
func NewIndex(reciters []catalog.Reciter) *Index {
	entries := make([]Entry, 0, len(reciters))
	for _, r := range reciters {
		entries = append(entries, Entry{
			Reciter:        r,
			NormalizedName: Normalize(r.Name),
		})
	}
	return &Index{entries: entries}
}

// Len reports the number of indexed reciters.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Query normalizes rawQuery and returns the reciters whose normalized
// names contain it, in catalog order. An empty query yields an empty
// result (no implicit "show all"); so does a query that matches nothing.
func (ix *Index) Query(rawQuery string) []catalog.Reciter {
	if ix == nil {
		return nil
	}
	q := Normalize(rawQuery)
	if q == "" {
		return []catalog.Reciter{}
	}

	matches := []catalog.Reciter{}
	for _, e := range ix.entries {
		if strings.Contains(e.NormalizedName, q) {
			matches = append(matches, e.Reciter)
		}
	}
	return matches
}
