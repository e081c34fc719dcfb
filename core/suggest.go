package core

import (
	"strings"
)

type suggestion struct {
	id   string
	text string
	when func(code string) bool
}

// suggestions are evaluated in declaration order; each true predicate adds
// its text once.
var suggestions = []suggestion{
	{
		id:   "error-handling",
		text: "Consider adding error handling with try-catch blocks",
		when: func(code string) bool { return !containsAny(code, "try:", "except", "catch", "finally") },
	},
	{
		id:   "comments",
		text: "Add comments to explain complex logic and improve readability",
		when: func(code string) bool { return !containsAny(code, commentMarkers...) },
	},
	{
		id:   "long-function",
		text: "Consider breaking long functions into smaller, more manageable pieces",
		when: func(code string) bool { return strings.Count(code, "\n")+1 > 30 },
	},
	{
		id:   "naming",
		text: "Use more descriptive variable names instead of single letters",
		when: func(code string) bool { return containsAny(code, "x", "y", "z", "temp", "var") },
	},
	{
		id:   "input-validation",
		text: "Add input validation to handle unexpected user input",
		when: func(code string) bool { return containsAny(code, "input(", "scanf") },
	},
}

// DefaultSuggestions are returned when no predicate fires.
var DefaultSuggestions = []string{
	"Consider adding error handling for better robustness",
	"Use more descriptive variable names for better readability",
	"Add comments to explain complex logic",
}

// Suggest returns canned improvement suggestions for the code.
func Suggest(code, _ string) []string {
	var out []string
	for _, s := range suggestions {
		if s.when(code) {
			out = append(out, s.text)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultSuggestions...)
	}
	return out
}
