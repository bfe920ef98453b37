// Package search provides diacritic-insensitive reciter search: text
// normalization, match highlighting, and an in-memory name index.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/rangetable"
)

// Diacritic marks stripped after decomposition: the Latin combining range
// plus the Arabic tashkeel/vowel marks.
var diacritics = rangetable.New(rangesToRunes(
	0x0300, 0x036F, // combining diacritical marks
	0x064B, 0x065F, // Arabic tashkeel
	0x0670, 0x0670, // superscript alef
	0x06D6, 0x06ED, // Arabic Quranic annotation marks
)...)

func rangesToRunes(pairs ...rune) []rune {
	var rs []rune
	for i := 0; i+1 < len(pairs); i += 2 {
		for r := pairs[i]; r <= pairs[i+1]; r++ {
			rs = append(rs, r)
		}
	}
	return rs
}

// Arabic letter variants folded to a canonical form so hamza/madda
// spellings compare equal.
var letterFolds = map[rune]rune{
	'آ': 'ا', // alif madda -> alif
	'أ': 'ا', // alif hamza above -> alif
	'إ': 'ا', // alif hamza below -> alif
	'ى': 'ي', // alif maksura -> yaa
	'ؤ': 'و', // waw hamza -> waw
	'ئ': 'ي', // yaa hamza -> yaa
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(diacritics)))

// Normalize canonicalizes text for search: decompose, strip diacritics,
// unify Arabic letter variants, lowercase, trim. Pure and total; any
// input (including the empty string) yields a deterministic result.
func Normalize(text string) string {
	return strings.TrimSpace(fold(text))
}

// fold is Normalize without the surrounding-whitespace trim. The
// highlighter aligns spans against this untrimmed form so position
// counting is exact even for padded input.
func fold(text string) string {
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		out = text
	}
	return strings.Map(func(r rune) rune {
		if folded, ok := letterFolds[r]; ok {
			return folded
		}
		return unicode.ToLower(r)
	}, out)
}
