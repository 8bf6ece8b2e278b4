package tex2html

import (
	"io"
	"log/slog"
	"time"

	"github.com/alnah/go-tex2html/internal/counters"
	"github.com/alnah/go-tex2html/internal/htmlconv"
	"github.com/alnah/go-tex2html/internal/pipeline"
	"github.com/alnah/go-tex2html/internal/plugins"
)

// Types shared with the internal packages.
type (
	// Fragment is a LaTeX snippet rendered as an image.
	Fragment = htmlconv.Fragment
	// Miss records a macro or environment that had no plugin.
	Miss = htmlconv.Miss
	// Snapshot holds counter values from a source offset on.
	Snapshot = counters.Snapshot
	// Snapshots is a list of snapshots sorted by offset.
	Snapshots = counters.Snapshots
	// PluginSet maps macro and environment names to plugins.
	PluginSet = htmlconv.PluginSet
	// Plugin converts one macro or environment.
	Plugin = htmlconv.Plugin
	// PluginFunc adapts a function to Plugin.
	PluginFunc = htmlconv.PluginFunc
	// Call is what a plugin sees: the invoking node and its arguments.
	Call = htmlconv.Call
	// Output is one item of plugin output, HTML text or a subtree.
	Output = htmlconv.Output
)

// Text returns plugin output that is emitted as is.
func Text(html string) Output { return htmlconv.Text(html) }

// BuiltinPlugins returns the default plugin set.
func BuiltinPlugins() (*PluginSet, error) { return plugins.Builtins(plugins.Config{}) }

// ParseCounters reads a counter dump written by a salted LaTeX run.
func ParseCounters(r io.Reader) (Snapshots, error) { return counters.ParseDump(r) }

// ParseLabels reads \ref targets from a LaTeX .aux file.
func ParseLabels(r io.Reader) (map[string]string, error) { return pipeline.ParseAux(r) }

// Input holds the data for converting a document body.
type Input struct {
	Body     string            // LaTeX between \begin{document} and \end{document}
	Counters Snapshots         // Counter snapshots (optional)
	Labels   map[string]string // \ref targets, e.g. from ParseLabels (optional)
}

// Result is the outcome of converting a body.
type Result struct {
	HTML        string     // HTML with <img> placeholders
	Fragments   []Fragment // In document order; ordinals are indices
	Unconverted []Miss     // Names without plugin, outside the benign list
}

// DocumentInput holds the data for converting a full document.
type DocumentInput struct {
	Source   string            // Whole .tex file, preamble included
	Counters Snapshots         // Offsets relative to the trimmed body
	Labels   map[string]string // \ref targets (optional)
}

// DocumentResult is the outcome of converting a full document.
type DocumentResult struct {
	Result
	Preamble string // Sanitized preamble, used to compile fragments
	Title    string // \title, or "No Title"
	Author   string // \author, or "Unknown"
}

// Option configures a Converter.
type Option func(*Converter)

// defaultDate is the date setting stamped in the document comment.
const defaultDate = "auto"

// WithPlugins replaces the built-in plugin set.
func WithPlugins(set *PluginSet) Option {
	return func(c *Converter) {
		c.plugins = set
	}
}

// WithLogger sets the logger for dispatch details. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPlaceholderFormat sets the fmt format applied to (name, ordinal).
func WithPlaceholderFormat(format string) Option {
	return func(c *Converter) {
		c.convOpts = append(c.convOpts, htmlconv.WithPlaceholderFormat(format))
	}
}

// WithTagFormat sets the fmt format wrapping each placeholder.
func WithTagFormat(format string) Option {
	return func(c *Converter) {
		c.convOpts = append(c.convOpts, htmlconv.WithTagFormat(format))
	}
}

// WithBenign replaces the names that become fragments without being
// reported in Result.Unconverted.
func WithBenign(names []string) Option {
	return func(c *Converter) {
		c.convOpts = append(c.convOpts, htmlconv.WithBenign(names))
	}
}

// WithDate sets the date stamped in the comment ConvertDocument emits:
// "auto", "auto:FORMAT", a preset, a literal, or "none".
func WithDate(value string) Option {
	return func(c *Converter) {
		c.date = value
	}
}

// WithClock sets the time source for "auto" dates.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}
