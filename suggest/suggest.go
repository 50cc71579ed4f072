// Package suggest finds close matches for misspelled user input.
package suggest

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
)

// String suggests a string that closely matches one of the candidates.
//
// The comparison is case insensitive. The maximum allowed edit distance grows
// with the length of the input; callers should not rely on the exact
// heuristic.
//
// If no close match is found, an empty string is returned.
func String(want string, candidates []string) string {
	want = strings.ToLower(want)

	maxDist := len(want) / 4
	if maxDist == 0 {
		maxDist = 1
	}

	var str string
	dist := maxDist + 1

	for _, cand := range candidates {
		lower := strings.ToLower(cand)
		if want == lower {
			return cand
		}
		d := levenshtein.Distance(want, lower, nil)
		if d < dist {
			str = cand
			dist = d
		}
	}

	if dist > maxDist {
		return ""
	}

	return str
}

// DidYouMean returns a " did you mean X?" hint for want, or an empty string if
// nothing matches closely enough. It is meant to be appended to error
// messages.
func DidYouMean(want string, candidates []string) string {
	s := String(want, candidates)
	if s == "" {
		return ""
	}
	return fmt.Sprintf("; did you mean %q?", s)
}
