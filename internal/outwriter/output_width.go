package outwriter

import (
	"os"

	"github.com/huangsam/archmine/internal/contract"
	"golang.org/x/term"
)

// getMaxDecisionTextWidth calculates how much space the decision column gets
// in table output based on terminal width and the fixed columns.
func getMaxDecisionTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + ID + Category + Commits + Confidence + Label, with borders and padding
	baseWidth := 65

	available := termWidth - baseWidth
	if available < 20 {
		// Minimum reasonable text width
		return 20
	}
	if available > 90 {
		// Cap to keep rows scannable on wide terminals
		return 90
	}
	return available
}
