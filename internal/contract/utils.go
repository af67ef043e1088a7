package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Confidence label constants.
const (
	StrongValue    = "Strong"    // Strong confidence
	SolidValue     = "Solid"     // Solid confidence
	TentativeValue = "Tentative" // Tentative confidence
	WeakValue      = "Weak"      // Weak confidence
)

// Color variables for console output.
var (
	StrongColor    = color.New(color.FgGreen, color.Bold) // strong evidence, act on it
	SolidColor     = color.New(color.FgCyan, color.Bold)  // solid evidence
	TentativeColor = color.New(color.FgYellow)            // needs a human look
	WeakColor      = color.New(color.FgRed)               // barely above threshold
)

// GetPlainLabel returns a plain text label indicating how trustworthy a mined
// decision is, based on its confidence (0-1). This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainLabel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return StrongValue
	case confidence >= 0.65:
		return SolidValue
	case confidence >= 0.5:
		return TentativeValue
	default:
		return WeakValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(confidence float64) string {
	text := GetPlainLabel(confidence)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case SolidValue:
		return SolidColor.Sprint(text)
	case TentativeValue:
		return TentativeColor.Sprint(text)
	default: // "Weak"
		return WeakColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "vendor/", "node_modules/", "*.min.js".
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		switch {
		case strings.ContainsAny(ex, "*?["):
			if ok, err := filepath.Match(ex, filepath.Base(path)); err == nil && ok {
				return true
			}
			if ok, err := filepath.Match(ex, path); err == nil && ok {
				return true
			}
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) || strings.Contains(path, "/"+ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
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

// GetDBFilePath returns the path to the SQLite DB file for the pattern cache.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".archmine_patterns.db"
	}
	return filepath.Join(homeDir, ".archmine_patterns.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and
// at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
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
