package main

import (
	"errors"
	"os"

	tex2html "github.com/alnah/go-tex2html"
	"github.com/alnah/go-tex2html/internal/config"
	"github.com/alnah/go-tex2html/internal/counters"
	"github.com/alnah/go-tex2html/internal/dateutil"
	"github.com/alnah/go-tex2html/internal/plugins"
)

// Exit codes for the tex2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitSource  = 4 // Input the pipeline cannot take apart
	ExitRender  = 5 // Fragment render command failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Source errors (exit 4)
	if errors.Is(err, tex2html.ErrNoDocument) ||
		errors.Is(err, tex2html.ErrOverlap) ||
		errors.Is(err, tex2html.ErrUnbalanced) ||
		errors.Is(err, tex2html.ErrPartition) ||
		errors.Is(err, tex2html.ErrInconsistent) ||
		errors.Is(err, tex2html.ErrPluginContract) ||
		errors.Is(err, tex2html.ErrMissingArgument) ||
		errors.Is(err, tex2html.ErrUnsortedCounters) ||
		errors.Is(err, tex2html.ErrMalformedDump) {
		return ExitSource
	}

	// Render errors (exit 5)
	if errors.Is(err, tex2html.ErrRender) ||
		errors.Is(err, tex2html.ErrNoCommand) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, counters.ErrReadFeed) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, plugins.ErrUnknownStyle) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidColor) {
		return ExitUsage
	}

	return ExitGeneral
}
