package core

import (
	"strings"
	"testing"

	"github.com/huangsam/codecritic/schema"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		analysis schema.QualityAnalysis
		language string
		code     string
		expected int
	}{
		{
			name:     "perfect",
			analysis: schema.QualityAnalysis{Lines: 5, Comments: 1, Complexity: 3},
			language: "python",
			code:     "# fine",
			expected: 100,
		},
		{
			name:     "no comments",
			analysis: schema.QualityAnalysis{Lines: 1},
			language: "python",
			code:     `print("hi")`,
			expected: 85,
		},
		{
			name:     "complexity at threshold is free",
			analysis: schema.QualityAnalysis{Lines: 1, Comments: 1, Complexity: 10},
			language: "python",
			expected: 100,
		},
		{
			name:     "complexity over threshold",
			analysis: schema.QualityAnalysis{Lines: 1, Comments: 1, Complexity: 11},
			language: "python",
			expected: 80,
		},
		{
			name:     "long code",
			analysis: schema.QualityAnalysis{Lines: 51, Comments: 2},
			language: "python",
			expected: 90,
		},
		{
			name:     "mismatch in python",
			analysis: schema.QualityAnalysis{Lines: 1},
			language: "Python",
			code:     "cout << Ravi Singhal",
			expected: 55,
		},
		{
			name:     "cout is fine in cpp",
			analysis: schema.QualityAnalysis{Lines: 1},
			language: "cpp",
			code:     "cout << Hello",
			expected: 85,
		},
		{
			name:     "every deduction",
			analysis: schema.QualityAnalysis{Lines: 60, Complexity: 20},
			language: "python",
			code:     "#include <iostream>",
			expected: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.analysis, tt.language, tt.code))
		})
	}
}

func TestScoreMatchesMismatchDetector(t *testing.T) {
	for _, code := range []string{"cout << x", "cin >> x", "#include <vector>", "print(1)"} {
		a := CountStructure(code)
		penalized := Score(a, "python", code) < Score(a, "cpp", code)
		hasFinding := false
		for _, f := range DetectMismatch(code, "python") {
			if f.Message == MismatchRules[0].Message {
				hasFinding = true
			}
		}
		assert.Equal(t, hasFinding, penalized, code)
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-15))
	assert.Equal(t, 100, clampScore(130))
	assert.Equal(t, 42, clampScore(42))
}

func TestScoreLongInput(t *testing.T) {
	code := strings.Repeat("if a:\n    cout << b\n", 40)
	a := CountStructure(code)
	assert.Equal(t, 25, Score(a, "python", code))
}
