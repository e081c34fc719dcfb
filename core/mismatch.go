package core

import (
	"strings"

	"github.com/huangsam/codecritic/schema"
)

// MismatchRules flag code that looks like a different language than the
// one selected. Each rule is evaluated independently.
var MismatchRules = []Rule{
	{
		ID:        "cpp-in-python",
		Type:      schema.LanguageMismatchType,
		Severity:  schema.SeverityHigh,
		Message:   "This code appears to be C++ but Python is selected. Converting to Python syntax...",
		Languages: pythonOnly,
		Detect:    whenever(looksLikeCpp),
	},
	{
		ID:        "include-directive",
		Type:      schema.LanguageMismatchType,
		Severity:  schema.SeverityHigh,
		Message:   "This is C/C++ code. Please select C++ as the language.",
		Languages: pythonOnly,
		Detect: whenever(func(code string) bool {
			return strings.HasPrefix(strings.TrimSpace(code), "#include")
		}),
	},
	{
		ID:        "javascript-in-python",
		Type:      schema.LanguageMismatchType,
		Severity:  schema.SeverityMedium,
		Message:   "This code appears to be JavaScript but Python is selected.",
		Languages: pythonOnly,
		Detect:    whenever(looksLikeJavaScript),
	},
}

// DetectMismatch returns language mismatch findings for the declared language.
func DetectMismatch(code, language string) []schema.Finding {
	return applyRules(MismatchRules, code, language)
}

// looksLikeCpp is shared with Score so the deduction and the finding agree.
func looksLikeCpp(code string) bool {
	return containsAny(code, "cout", "cin", "#include")
}

func looksLikeJavaScript(code string) bool {
	return containsAny(code, "console.log", "const ", "let ") &&
		strings.Contains(code, "function") &&
		!strings.Contains(code, "def ")
}
