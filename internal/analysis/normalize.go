package analysis

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// strippedRunes are punctuation and prolonged-sound marks removed from terms
// before counting. NFKC folds fullwidth variants onto these first.
const strippedRunes = "_-.,:;/\\()[]!?ー〜~"

// NormalizeTerm folds a token surface into its canonical counting key:
// NFKC, lowercased, stripped of punctuation and long-vowel marks, with
// whitespace runs collapsed to single spaces. Terms shorter than two runes
// carry no signal and collapse to "".
//
// The function is idempotent: NormalizeTerm(NormalizeTerm(s)) == NormalizeTerm(s).
func NormalizeTerm(raw string) string {
	s := norm.NFKC.String(raw)
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedRunes, r) {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= 1 {
		return ""
	}
	return s
}
