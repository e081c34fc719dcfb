package core

import (
	"strings"

	"github.com/huangsam/codecritic/schema"
)

// LogicRules run after the mismatch rules, in this order.
var LogicRules = []Rule{
	{
		ID:        "infinite-loop",
		Type:      schema.InfiniteLoopType,
		Severity:  schema.SeverityHigh,
		Message:   "Potential infinite loop detected - while True without break",
		Languages: pythonOnly,
		Detect: whenever(func(code string) bool {
			return strings.Contains(code, "while True:") && !strings.Contains(code, "break")
		}),
	},
	{
		ID:        "missing-else",
		Type:      schema.MissingElseType,
		Severity:  schema.SeverityMedium,
		Message:   "Consider adding else clause for better logic flow",
		Languages: pythonOnly,
		Detect: whenever(func(code string) bool {
			return strings.Contains(code, "if") &&
				!strings.Contains(code, "else") &&
				!strings.Contains(code, "elif") &&
				strings.Count(code, "if") > 1
		}),
	},
	{
		ID:        "division-by-zero",
		Type:      schema.DivisionByZeroType,
		Severity:  schema.SeverityHigh,
		Message:   "Potential division by zero - add zero check",
		Languages: pythonOnly,
		Detect: whenever(func(code string) bool {
			return strings.Contains(code, "/") && strings.Contains(code, "0")
		}),
	},
	{
		ID:        "unused-variable",
		Type:      schema.UnusedVariableType,
		Severity:  schema.SeverityLow,
		Message:   `Variable "%s" might be unused`,
		Languages: pythonOnly,
		Detect:    unusedAssignments,
	},
}

// DetectLogicIssues returns the mismatch findings followed by the logic
// rule findings.
func DetectLogicIssues(code, language string) []schema.Finding {
	findings := DetectMismatch(code, language)
	return append(findings, applyRules(LogicRules, code, language)...)
}

// unusedAssignments flags assignment lines whose left-hand text never
// appears again after the first occurrence of that line. Matching is by
// substring, so a short name reused anywhere later hides the finding.
func unusedAssignments(code string) []Hit {
	var hits []Hit
	for i, line := range strings.Split(code, "\n") {
		eq := strings.Index(line, "=")
		if eq < 0 || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		name := strings.TrimSpace(line[:eq])
		if name == "" {
			continue
		}
		pos := strings.Index(code, line)
		if !strings.Contains(code[pos+len(line):], name) {
			hits = append(hits, Hit{Line: i + 1, Args: []any{name}})
		}
	}
	return hits
}
