package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/fatih/color"

	tex2html "github.com/alnah/go-tex2html"
)

// ErrInvalidColor is returned for an unknown --color mode.
var ErrInvalidColor = errors.New("invalid color mode")

// styles holds the color formatters of the report.
type styles struct {
	created *color.Color
	warning *color.Color
	failed  *color.Color
	name    *color.Color
	detail  *color.Color
}

// newStyles creates color formatters for report output.
// enabled=false respects --color never and the NO_COLOR env var.
func newStyles(enabled bool) *styles {
	s := &styles{
		created: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failed:  color.New(color.Bold, color.FgRed),
		name:    color.New(color.Bold),
		detail:  color.New(color.FgHiBlack),
	}

	if !enabled {
		s.created.DisableColor()
		s.warning.DisableColor()
		s.failed.DisableColor()
		s.name.DisableColor()
		s.detail.DisableColor()
	} else {
		s.created.EnableColor()
		s.warning.EnableColor()
		s.failed.EnableColor()
		s.name.EnableColor()
		s.detail.EnableColor()
	}

	return s
}

// colorEnabled resolves a --color mode. "auto" follows fatih/color, which
// checks NO_COLOR and whether stdout is a terminal.
func colorEnabled(mode string) (bool, error) {
	switch mode {
	case "", "auto":
		return !color.NoColor, nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q (want one of %v)", ErrInvalidColor, mode, colorModes)
	}
}

// report gathers what a conversion run produced.
type report struct {
	htmlPath     string
	manifestPath string
	fragments    int
	unconverted  []tex2html.Miss
	renders      []tex2html.RenderResult
	elapsed      time.Duration
}

// printReport writes the outcome of a run. Failed renders always go to
// stderr; everything else is silenced by quiet. Returns the failed count.
func printReport(stdout, stderr io.Writer, s *styles, r *report, quiet, verbose bool) int {
	summary := tex2html.Summarize(r.renders)

	for _, res := range r.renders {
		if res.Err != nil {
			fmt.Fprintf(stderr, "%s %s: %v\n", s.failed.Sprint("FAILED"), res.Placeholder, res.Err)
		}
	}

	if quiet {
		return summary.Failed
	}

	fmt.Fprintf(stdout, "%s %s\n", s.created.Sprint("Created"), r.htmlPath)
	if r.manifestPath != "" {
		fmt.Fprintf(stdout, "%s %s\n", s.created.Sprint("Created"), r.manifestPath)
	}

	if len(r.unconverted) > 0 {
		names := missNames(r.unconverted)
		fmt.Fprintf(stderr, "%s %d unconverted construct(s) became fragments\n",
			s.warning.Sprint("warning:"), len(r.unconverted))
		if verbose {
			for _, n := range names {
				fmt.Fprintf(stderr, "  %s\n", s.name.Sprint(n))
			}
		}
	}

	if verbose {
		for _, res := range r.renders {
			if res.Err == nil {
				fmt.Fprintf(stdout, "  %s.%s %s\n", res.Placeholder, res.Ext,
					s.detail.Sprintf("(%v)", res.Duration.Round(time.Millisecond)))
			}
		}
	}

	fmt.Fprintf(stdout, "\n%d fragment(s), %d rendered, %d failed %s\n",
		r.fragments, summary.Succeeded, summary.Failed,
		s.detail.Sprintf("(%v)", r.elapsed.Round(time.Millisecond)))

	return summary.Failed
}

// missNames returns the sorted distinct names of misses.
func missNames(misses []tex2html.Miss) []string {
	names := make([]string, 0, len(misses))
	for _, m := range misses {
		names = append(names, m.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}
