package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NormalizeForComparison prepares a string for free-text matching across
// Turkish and ASCII keyboards. Turkish casing maps I to ı (not i), so a
// search typed with the "wrong" i variant would miss otherwise: the string
// is lowercased under Turkish rules and every dotted i and dotless ı is
// removed. Total function, empty in means empty out.
func NormalizeForComparison(s string) string {
	lowered := cases.Lower(language.Turkish).String(s)
	return strings.Map(func(r rune) rune {
		if r == 'i' || r == 'ı' {
			return -1
		}
		return r
	}, lowered)
}

// containsNormalized reports whether haystack contains needle after both
// sides go through NormalizeForComparison. The needle is expected to be
// pre-normalized by the caller when matching in a loop.
func containsNormalized(haystack, normalizedNeedle string) bool {
	return strings.Contains(NormalizeForComparison(haystack), normalizedNeedle)
}

// equalsNormalized is normalized equality, used for the review-section check.
func equalsNormalized(a, b string) bool {
	return NormalizeForComparison(a) == NormalizeForComparison(b)
}

// sortTurkish sorts strings in place with Turkish collation (ç, ş, ı, ö, ü
// sort where a Turkish reader expects them, not at the end of the alphabet).
// A fresh collator per call: collators carry internal buffers and are not
// safe for concurrent use.
func sortTurkish(list []string) {
	collate.New(language.Turkish).SortStrings(list)
}
