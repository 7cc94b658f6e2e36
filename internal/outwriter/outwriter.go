// Package outwriter renders scan results, report listings and the changelog
// in table, JSON and CSV form.
package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/healthspeed/healthspeed/internal/contract"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// getMaxTitleWidth calculates how much room issue titles get in table
// output based on terminal width.
func getMaxTitleWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for severity, id and fix columns plus borders.
	available := termWidth - 50
	if available < 20 {
		return 20
	}
	if available > 70 {
		return 70
	}
	return available
}
