package core

import (
	"regexp"
	"strings"
)

var (
	coutBarePayload   = regexp.MustCompile(`cout\s*<<\s*([A-Za-z0-9_][A-Za-z0-9_\s]*)`)
	coutQuotedPayload = regexp.MustCompile(`cout\s*<<\s*["']([^"']*)["']`)
	coutStatement     = regexp.MustCompile(`cout\s*<<\s*([^\n<;]+)`)
	coutExpression    = regexp.MustCompile(`cout\s*<<\s*([^\n<]+)`)
)

// Correct rewrites stream-output code into the selected language's form.
// Input it does not recognize is returned unchanged.
func Correct(code, language string) string {
	switch {
	case isPython(language) && containsAny(code, "cout", "cin"):
		return correctToPython(code)
	case isCpp(language) && strings.Contains(code, "cout <<"):
		return correctCppStatement(code)
	default:
		return code
	}
}

func correctToPython(code string) string {
	if !strings.Contains(code, "cout <<") {
		return code
	}
	if m := coutBarePayload.FindStringSubmatch(code); m != nil {
		return `print("` + strings.TrimSpace(m[1]) + `")`
	}
	if m := coutQuotedPayload.FindStringSubmatch(code); m != nil {
		return `print("` + m[1] + `")`
	}
	return code
}

// correctCppStatement returns a single quoted, terminated cout statement
// that replaces the whole input.
func correctCppStatement(code string) string {
	m := coutStatement.FindStringSubmatch(code)
	if m == nil {
		return code
	}
	payload := strings.TrimSpace(m[1])
	if !strings.HasPrefix(payload, `"`) || !strings.HasSuffix(payload, `"`) {
		payload = `"` + payload + `"`
	}
	return "cout << " + payload + ";"
}
