package core

import (
	"testing"

	"github.com/huangsam/codecritic/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleAppliesTo(t *testing.T) {
	everyLanguage := Rule{ID: "any"}
	assert.True(t, everyLanguage.AppliesTo("cobol"))

	py := Rule{ID: "py", Languages: pythonOnly}
	assert.True(t, py.AppliesTo("python"))
	assert.True(t, py.AppliesTo(" PYTHON "))
	assert.False(t, py.AppliesTo("cpp"))
	assert.False(t, py.AppliesTo(""))
}

func TestRuleFinding(t *testing.T) {
	r := Rule{Type: "Demo", Severity: schema.SeverityLow, Message: "name %s at %d"}

	f := r.finding(Hit{Line: 3, Args: []any{"x", 3}})
	assert.Equal(t, "name x at 3", f.Message)
	require.NotNil(t, f.Line)
	assert.Equal(t, 3, *f.Line)

	plain := Rule{Type: "Demo", Severity: schema.SeverityHigh, Message: "100% literal"}.finding(Hit{})
	assert.Equal(t, "100% literal", plain.Message)
	assert.Nil(t, plain.Line)
}

func TestApplyRulesOrderAndEmpty(t *testing.T) {
	rules := []Rule{
		{ID: "b", Type: "B", Detect: whenever(func(string) bool { return true })},
		{ID: "skip", Type: "S", Languages: []string{"cpp"}, Detect: whenever(func(string) bool { return true })},
		{ID: "a", Type: "A", Detect: func(string) []Hit { return []Hit{{Line: 1}, {Line: 2}} }},
	}

	got := applyRules(rules, "code", "python")
	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].Type)
	assert.Equal(t, "A", got[1].Type)
	assert.Equal(t, 2, *got[2].Line)

	none := applyRules(nil, "code", "python")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func findingTypes(findings []schema.Finding) []string {
	types := make([]string, len(findings))
	for i, f := range findings {
		types[i] = f.Type
	}
	return types
}

func TestDetectMismatch(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		language   string
		severities []schema.Severity
	}{
		{"clean python", `print("hi")`, "python", []schema.Severity{}},
		{"stream output in python", "cout << Ravi Singhal", "python", []schema.Severity{schema.SeverityHigh}},
		{"stream input in python", "cin >> name", "python", []schema.Severity{schema.SeverityHigh}},
		{"include directive", "  #include <iostream>\nint main() {}", "python", []schema.Severity{schema.SeverityHigh, schema.SeverityHigh}},
		{"include later in text", "int x;\n#include <vector>", "python", []schema.Severity{schema.SeverityHigh}},
		{"javascript in python", "const x = 1\nfunction f() { console.log(x) }", "python", []schema.Severity{schema.SeverityMedium}},
		{"javascript with def keyword", "let def = 1\nfunction f() {}", "python", []schema.Severity{}},
		{"cpp declared", "cout << Hello", "cpp", []schema.Severity{}},
		{"case insensitive language", "cout << x", "Python", []schema.Severity{schema.SeverityHigh}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectMismatch(tt.code, tt.language)
			severities := make([]schema.Severity, len(got))
			for i, f := range got {
				assert.Equal(t, schema.LanguageMismatchType, f.Type)
				assert.Nil(t, f.Line)
				severities[i] = f.Severity
			}
			assert.Equal(t, tt.severities, severities)
		})
	}
}

func TestDetectLogicIssues(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		language string
		expected []string
	}{
		{"infinite loop", "while True:\n    pass", "python", []string{schema.InfiniteLoopType}},
		{"loop with break", "while True:\n    break", "python", []string{}},
		{"missing else", "if a:\n    pass\nif b:\n    pass", "python", []string{schema.MissingElseType}},
		{"single if", "if a:\n    pass", "python", []string{}},
		{"if with else", "if a:\n    pass\nif b:\n    pass\nelse:\n    pass", "python", []string{}},
		{"division and unused", "a = b / 0", "python", []string{schema.DivisionByZeroType, schema.UnusedVariableType}},
		{"unrelated slash and zero", "print(10)\n# a/b", "python", []string{schema.DivisionByZeroType}},
		{"non python skips logic rules", "while True:\n    x = 1 / 0", "cpp", []string{}},
		{
			"mismatch first then logic",
			"cout << x\nwhile True:\n    pass",
			"python",
			[]string{schema.LanguageMismatchType, schema.InfiniteLoopType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, findingTypes(DetectLogicIssues(tt.code, tt.language)))
		})
	}
}

func TestUnusedAssignments(t *testing.T) {
	code := "x = 1\ny = 2\n# z = 3\nprint(y)"

	findings := applyRules(LogicRules[3:], code, "python")
	require.Len(t, findings, 1)
	assert.Equal(t, schema.UnusedVariableType, findings[0].Type)
	assert.Equal(t, `Variable "x" might be unused`, findings[0].Message)
	assert.Equal(t, schema.SeverityLow, findings[0].Severity)
	require.NotNil(t, findings[0].Line)
	assert.Equal(t, 1, *findings[0].Line)
}

func TestUnusedAssignmentsSubstringMatch(t *testing.T) {
	// A short name reused inside another word hides the finding.
	hits := unusedAssignments("i = 0\nprint('hi')")
	assert.Empty(t, hits)

	hits = unusedAssignments("total = 0\nvalue = 1\nprint(value)")
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Line)
	assert.Equal(t, []any{"total"}, hits[0].Args)
}
