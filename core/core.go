// Package core has the review pipeline: structural counting, syntax
// checking, mismatch and logic heuristics, correction, scoring and the
// templated explanation, plus optional model enrichment and persistence.
package core

import (
	"strings"

	"github.com/huangsam/codecritic/schema"
)

func isBlank(code string) bool {
	return strings.TrimSpace(code) == ""
}

// languageOrDefault returns the trimmed language, defaulting to Python.
func languageOrDefault(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return schema.PythonLanguage
	}
	return language
}

// filenameOrDefault returns the filename, defaulting to code.<language>.
func filenameOrDefault(filename, language string) string {
	if strings.TrimSpace(filename) == "" {
		return schema.DefaultFilename(language)
	}
	return filename
}
