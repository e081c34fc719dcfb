package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/codecritic/internal/logging"
	"github.com/huangsam/codecritic/schema"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // top grades
	GoodColor      = color.New(color.FgCyan)              // acceptable
	FairColor      = color.New(color.FgYellow)            // needs attention
	PoorColor      = color.New(color.FgRed, color.Bold)   // needs rework
)

// GetColorGrade returns a colored grade label for table output.
func GetColorGrade(score int) string {
	text := schema.GetGradeLabel(score)

	switch text {
	case schema.ExcellentGrade:
		return ExcellentColor.Sprint(text)
	case schema.GoodGrade:
		return GoodColor.Sprint(text)
	case schema.FairGrade:
		return FairColor.Sprint(text)
	default:
		return PoorColor.Sprint(text)
	}
}

// GetColorSeverity returns a colored severity label for table output.
func GetColorSeverity(s schema.Severity) string {
	switch s {
	case schema.SeverityHigh:
		return PoorColor.Sprint(string(s))
	case schema.SeverityMedium:
		return FairColor.Sprint(string(s))
	default:
		return GoodColor.Sprint(string(s))
	}
}

// SelectOutputFile returns the file handle for output, or os.Stdout when
// no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logging.Error().Err(err).Msg(msg)
	os.Exit(1)
}

// LogWarn logs a warning.
func LogWarn(msg string, err error) {
	logging.Warn().Err(err).Msg(msg)
}

// GetReviewDBFilePath returns the default SQLite file for review storage.
func GetReviewDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".codecritic.db"
	}
	return filepath.Join(homeDir, ".codecritic.db")
}

// TruncateText shortens text to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and some content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// FirstLine returns the first non-blank line of text, trimmed.
func FirstLine(text string) string {
	for line := range strings.SplitSeq(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
