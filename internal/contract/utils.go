package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	GrowthColor  = color.New(color.FgGreen)            // positive daily delta
	DeclineColor = color.New(color.FgRed, color.Bold)  // negative daily delta
	FlatColor    = color.New(color.FgHiBlack)          // no change
	HeaderColor  = color.New(color.FgCyan, color.Bold) // section titles
)

// ColorDelta renders a signed daily delta, colored by direction.
func ColorDelta(delta int64) string {
	switch {
	case delta > 0:
		return GrowthColor.Sprintf("+%d", delta)
	case delta < 0:
		return DeclineColor.Sprintf("%d", delta)
	default:
		return FlatColor.Sprint("0")
	}
}

// SelectOutputFile returns the appropriate file handle for output.
// An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for the stats store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".fpstats.db"
	}
	return filepath.Join(homeDir, ".fpstats.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
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
