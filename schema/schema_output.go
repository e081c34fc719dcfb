package schema

import (
	"fmt"
	"strings"
)

// Grade labels for quality scores.
const (
	ExcellentGrade = "Excellent"
	GoodGrade      = "Good"
	FairGrade      = "Fair"
	PoorGrade      = "Poor"
)

// GetGradeLabel returns a plain text grade for a quality score.
// Higher scores are better, unlike risk scores.
func GetGradeLabel(score int) string {
	switch {
	case score >= 90:
		return ExcellentGrade
	case score >= 75:
		return GoodGrade
	case score >= 50:
		return FairGrade
	default:
		return PoorGrade
	}
}

// IssuesSummary formats the compact issue counter stored with every review.
func IssuesSummary(syntaxCount, logicCount int) string {
	return fmt.Sprintf("%d syntax errors, %d logic issues", syntaxCount, logicCount)
}

// NormalizeLanguage lowercases and trims a declared language.
func NormalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}

// DefaultFilename returns the filename used when a request omits one.
func DefaultFilename(language string) string {
	return "code." + language
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// EnrichedReview adds presentation data to a ReviewRecord.
type EnrichedReview struct {
	Rank  int    `json:"rank"`
	Grade string `json:"grade"`
	ReviewRecord
}

// EnrichReviews adds rank and grade to a list of reviews, preserving their order.
func EnrichReviews(reviews []ReviewRecord) []EnrichedReview {
	output := make([]EnrichedReview, len(reviews))
	for i, r := range reviews {
		output[i] = EnrichedReview{
			Rank:         i + 1,
			Grade:        GetGradeLabel(r.Score),
			ReviewRecord: r,
		}
	}
	return output
}
