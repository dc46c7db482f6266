package outwriter

import (
	"os"

	"github.com/huangsam/fpstats/internal/contract"
	"golang.org/x/term"
)

// getTermWidth returns the configured width, the detected terminal width, or 80.
func getTermWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxTableNameWidth calculates the maximum width for names in table output.
// fixedWidth is the space taken by the other columns, borders included.
func getMaxTableNameWidth(cfg *contract.Config, fixedWidth int) int {
	available := getTermWidth(cfg) - fixedWidth
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncate shortens s to at most width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
