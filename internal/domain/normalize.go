package domain

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// nearMissThreshold is the minimum Jaro-Winkler score for a wrong answer
// to be reported as "almost"
const nearMissThreshold = 0.88

// Normalize folds an answer for comparison: trims, lower-cases,
// replaces ё with е and collapses internal whitespace
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "ё", "е")
	return strings.Join(strings.Fields(s), " ")
}

// IsNearMiss reports whether a wrong answer is close to one of the
// item's accepted answers. It never affects scoring, only feedback.
func IsNearMiss(answer string, item VocabItem) bool {
	n := Normalize(answer)
	if n == "" {
		return false
	}
	for a := range item.accepted {
		if a == n {
			return false
		}
		if matchr.JaroWinkler(n, a, false) >= nearMissThreshold {
			return true
		}
	}
	return false
}
