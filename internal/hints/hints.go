// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os/exec"
	"strings"
)

// LookPath reports whether a program is on PATH. Replaced in tests.
var LookPath = func(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-tex2html/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-tex2html") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForNoDocument returns hints for input lacking document markers.
func ForNoDocument() string {
	return format(`input must be a full document with \begin{document} and \end{document}`)
}

// ForCounterFeed returns hints for unreadable or malformed counter feeds.
func ForCounterFeed() string {
	return format("create the feed with --salt, compile the salted file with LaTeX, then pass the .nobby file to --counters")
}

// ForStyleNotFound returns hints for unknown highlight styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForRenderCommand returns hints for a failing fragment render command.
// Mentions a missing program when it is not on PATH.
func ForRenderCommand(program string) string {
	var hints []string
	if program != "" && !LookPath(program) {
		hints = append(hints, program+" not found on PATH")
	}
	hints = append(hints, `"{}" in render.command stands for the fragment .tex file`)
	return formatHints(hints)
}

// ForInconsistentTree returns hints for reconstruction failures.
func ForInconsistentTree() string {
	return format("the bodies printed above show where scanning went wrong; report them with the input")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
