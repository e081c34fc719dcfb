package core

import (
	"github.com/huangsam/codecritic/schema"
)

// Score deductions, applied to a base of 100.
const (
	baseScore           = 100
	complexityThreshold = 10
	complexityPenalty   = 20
	noCommentsPenalty   = 15
	lengthThreshold     = 50
	lengthPenalty       = 10
	mismatchPenalty     = 30
)

// Score computes the 0..100 quality score from the structural counters.
// The mismatch deduction uses the same C++ token test as the mismatch
// detector and only applies when the selected language is Python.
func Score(a schema.QualityAnalysis, language, code string) int {
	score := baseScore
	if a.Complexity > complexityThreshold {
		score -= complexityPenalty
	}
	if a.Comments == 0 {
		score -= noCommentsPenalty
	}
	if a.Lines > lengthThreshold {
		score -= lengthPenalty
	}
	if isPython(language) && looksLikeCpp(code) {
		score -= mismatchPenalty
	}
	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func isPython(language string) bool {
	return schema.NormalizeLanguage(language) == schema.PythonLanguage
}

func isCpp(language string) bool {
	return schema.NormalizeLanguage(language) == schema.CppLanguage
}
