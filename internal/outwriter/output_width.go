package outwriter

import (
	"os"

	"github.com/huangsam/codecritic/internal/contract"
	"golang.org/x/term"
)

// Bounds for the free-text column of a table.
const (
	minTextWidth = 15
	maxTextWidth = 80
)

// terminalWidth returns the width override from flag/env, the detected
// terminal width, or a conservative default.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Conservative default for narrow terminals and CI
		return contract.DefaultTableWidth
	}
	return detectedWidth
}

// getMaxTableTextWidth calculates how wide the free-text column of a table
// may be once fixedWidth is reserved for the other columns.
func getMaxTableTextWidth(cfg *contract.Config, fixedWidth int) int {
	// Reserve generous space for table borders, separators, and padding
	available := terminalWidth(cfg) - fixedWidth - 20
	if available < minTextWidth {
		return minTextWidth
	}
	if available > maxTextWidth {
		return maxTextWidth
	}
	return available
}
