package search

import "unicode/utf8"

// Span locates the first occurrence of normalizedQuery within the
// normalized form of original and maps it back to byte offsets in the
// original string. Normalization changes character counts (diacritics
// vanish), so the original is walked rune by rune, advancing the
// normalized position only by what each rune contributes after
// normalization. Returns ok=false when the query is empty or absent.
func Span(original, normalizedQuery string) (start, end int, ok bool) {
	if normalizedQuery == "" {
		return 0, 0, false
	}

	qRunes := []rune(normalizedQuery)
	tRunes := []rune(fold(original))
	idx := runeIndex(tRunes, qRunes)
	if idx < 0 {
		return 0, 0, false
	}

	pos := 0 // position in normalized runes
	start, end = -1, -1
	for bi, r := range original {
		n := len([]rune(fold(string(r))))
		if n == 0 {
			continue // rune vanished under normalization
		}
		if start < 0 && pos+n > idx {
			start = bi
		}
		pos += n
		if start >= 0 && pos >= idx+len(qRunes) {
			end = bi + utf8.RuneLen(r)
			break
		}
	}
	if start < 0 || end < 0 {
		return 0, 0, false
	}
	return start, end, true
}

// Highlight wraps the matched span of original in the given markers.
// No match returns original unchanged.
func Highlight(original, normalizedQuery, open, close string) string {
	start, end, ok := Span(original, normalizedQuery)
	if !ok {
		return original
	}
	return original[:start] + open + original[start:end] + close + original[end:]
}

// runeIndex returns the first index of needle within haystack, in runes.
func runeIndex(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
