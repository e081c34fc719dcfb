package core

import (
	"strings"

	"github.com/huangsam/codecritic/schema"
)

// Marker substrings counted by CountStructure. Matching is literal and
// case-sensitive, so "def " inside a string literal still counts.
var (
	functionMarkers = []string{"def ", "function "}
	branchMarkers   = []string{"if ", "elif ", "case "}
	loopMarkers     = []string{"for ", "while "}
	commentMarkers  = []string{"#", "//", "/*"}
)

// CountStructure derives the quality counters for a code body. Score is
// left at zero; see Score.
func CountStructure(code string) schema.QualityAnalysis {
	a := schema.QualityAnalysis{
		Lines:     strings.Count(code, "\n") + 1,
		Functions: countAll(code, functionMarkers),
		Branches:  countAll(code, branchMarkers),
		Loops:     countAll(code, loopMarkers),
		Comments:  countAll(code, commentMarkers),
	}
	a.Complexity = a.Functions + a.Branches + a.Loops
	return a
}

// countAll sums non-overlapping occurrences of every marker.
func countAll(code string, markers []string) int {
	total := 0
	for _, m := range markers {
		total += strings.Count(code, m)
	}
	return total
}

func containsAny(code string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(code, n) {
			return true
		}
	}
	return false
}
