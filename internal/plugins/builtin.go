// Package plugins provides the built-in converters for common LaTeX macros
// and environments.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"html"
	"maps"

	"github.com/alnah/go-tex2html/internal/delim"
	"github.com/alnah/go-tex2html/internal/htmlconv"
)

// ErrMissingArgument is returned when a macro lacks a required argument.
var ErrMissingArgument = errors.New("missing macro argument")

// DefaultIgnore maps macros that produce no output to the number of
// arguments they swallow.
var DefaultIgnore = map[string]int{
	"maketitle": 0,
	"noindent":  0,
	"footnote":  1,
	"rule":      2,
}

// Config selects and tunes the built-in plugins.
type Config struct {
	// Ignore replaces DefaultIgnore when non-nil.
	Ignore map[string]int
	// Disable lists built-in names that should become fragments instead.
	Disable []string
	// Style is the chroma style for verbatim and lstlisting.
	Style string
}

// Builtins returns the built-in plugins as a set.
func Builtins(cfg Config) (*htmlconv.PluginSet, error) {
	if err := ValidateStyle(cfg.Style); err != nil {
		return nil, err
	}
	m := map[string]htmlconv.Plugin{
		"itemize":       wrap("<ul>", "</ul>"),
		"enumerate":     wrap("<ol>", "</ol>"),
		"item":          wrap("<li>", ""),
		"chapter":       heading("h1", -1),
		"section":       heading("h1", 0),
		"subsection":    heading("h2", 1),
		"subsubsection": heading("h3", 2),
		"comment_":      wrap("<!--", "-->\n"),
		"label":         htmlconv.PluginFunc(label),
		"hyperref":      htmlconv.PluginFunc(hyperref),
		"href":          htmlconv.PluginFunc(href),
		"ref":           htmlconv.PluginFunc(ref),
		"url":           htmlconv.PluginFunc(url),
		"emph":          wrap("<em>", "</em>"),
		"textbf":        wrap("<b>", "</b>"),
		"texttt":        wrap("<tt>", "</tt>"),
		"ldots":         literal("..."),
		"textbackslash": literal(`\`),
		"newpage":       literal("<p>"),
		"verbatim":      Highlighter{Style: cfg.Style},
		"lstlisting":    Highlighter{Style: cfg.Style, Options: true},
	}

	ignore := cfg.Ignore
	if ignore == nil {
		ignore = DefaultIgnore
	}
	for name, n := range ignore {
		if n < 0 {
			return nil, fmt.Errorf("ignore %q: negative argument count %d", name, n)
		}
		m[name] = Ignore(n)
	}

	for _, name := range cfg.Disable {
		delete(m, name)
	}
	return htmlconv.NewPluginSet(m)
}

// Names returns every name Builtins can register with the default config.
func Names() []string {
	set, _ := Builtins(Config{})
	return set.Names()
}

// wrap emits open, the converted arguments, then close.
func wrap(open, close string) htmlconv.PluginFunc {
	return func(_ context.Context, c *htmlconv.Call) ([]htmlconv.Output, error) {
		out := make([]htmlconv.Output, 0, len(c.Args)+2)
		out = append(out, htmlconv.Text(open))
		out = append(out, c.Rest(0)...)
		return append(out, htmlconv.Text(close)), nil
	}
}

// literal emits s followed by the arguments untouched.
func literal(s string) htmlconv.PluginFunc {
	return func(_ context.Context, c *htmlconv.Call) ([]htmlconv.Output, error) {
		return append([]htmlconv.Output{htmlconv.Text(s)}, c.Rest(0)...), nil
	}
}

// Ignore returns a plugin that drops the macro and its first n arguments.
func Ignore(n int) htmlconv.Plugin {
	return htmlconv.PluginFunc(func(_ context.Context, c *htmlconv.Call) ([]htmlconv.Output, error) {
		return c.Rest(n), nil
	})
}

// heading renders a sectioning macro. level < 0 means unnumbered.
// Optional arguments (short titles) are dropped; the first mandatory
// argument becomes the title.
func heading(tag string, level int) htmlconv.PluginFunc {
	return func(ctx context.Context, c *htmlconv.Call) ([]htmlconv.Output, error) {
		i := 0
		for i < len(c.Args) && c.Arg(i).IsOptionalArg() {
			i++
		}
		if i >= len(c.Args) {
			return nil, fmt.Errorf("%w: \\%s needs a title", ErrMissingArgument, c.Name())
		}

		open := "<" + tag + ">"
		if num := NumberingFrom(ctx); num != nil && level >= 0 {
			exact, _ := c.ExactCounters()
			open += num.Next(level, exact) + "  "
		}
		out := []htmlconv.Output{
			htmlconv.Text(open),
			htmlconv.Subtree(c.Args[i]),
			htmlconv.Text("</" + tag + ">"),
		}
		return append(out, c.Rest(i+1)...), nil
	}
}

// mandatory returns the raw body of the i-th argument, which must be a
// brace group.
func mandatory(c *htmlconv.Call, i int) (string, error) {
	a := c.Arg(i)
	if a == nil || a.Kind != delim.Brace1 {
		return "", fmt.Errorf("%w: \\%s argument %d", ErrMissingArgument, c.Name(), i+1)
	}
	return a.Body, nil
}

func label(_ context.Context, c *htmlconv.Call) ([]htmlconv.Output, error) {
	name, err := mandatory(c, 0)
	if err != nil {
		return nil, err
	}
	out := []htmlconv.Output{htmlconv.Text(fmt.Sprintf(`<a name="%s"></a>`, html.EscapeString(name)))}
	return append(out, c.Rest(1)...), nil
}

// hyperref handles \hyperref[label]{text}.
func hyperref(_ context.Context, c *htmlconv.Call) ([]htmlconv.Output, error) {
	if len(c.Args) < 2 || !c.Arg(0).IsOptionalArg() {
		return nil, fmt.Errorf("%w: \\hyperref needs [label]{text}", ErrMissingArgument)
	}
	target := c.Arg(0).Body
	target = target[1 : len(target)-1]
	if _, err := mandatory(c, 1); err != nil {
		return nil, err
	}
	return link("#"+target, c, 1), nil
}

// href handles \href{url}{text}.
func href(_ context.Context, c *htmlconv.Call) ([]htmlconv.Output, error) {
	target, err := mandatory(c, 0)
	if err != nil {
		return nil, err
	}
	if _, err := mandatory(c, 1); err != nil {
		return nil, err
	}
	return link(target, c, 1), nil
}

func link(target string, c *htmlconv.Call, text int) []htmlconv.Output {
	out := []htmlconv.Output{
		htmlconv.Text(fmt.Sprintf(`<a href="%s">`, html.EscapeString(target))),
		htmlconv.Subtree(c.Args[text]),
		htmlconv.Text("</a>"),
	}
	return append(out, c.Rest(text+1)...)
}

func url(_ context.Context, c *htmlconv.Call) ([]htmlconv.Output, error) {
	target, err := mandatory(c, 0)
	if err != nil {
		return nil, err
	}
	esc := html.EscapeString(target)
	out := []htmlconv.Output{htmlconv.Text(fmt.Sprintf(`<a href="%s">%s</a>`, esc, esc))}
	return append(out, c.Rest(1)...), nil
}

// ref resolves \ref{label} against the label table in ctx. An unknown label
// is logged and its name is left in the text.
func ref(ctx context.Context, c *htmlconv.Call) ([]htmlconv.Output, error) {
	name, err := mandatory(c, 0)
	if err != nil {
		return nil, err
	}
	number, ok := LabelsFrom(ctx)[name]
	if !ok {
		c.Logger.Warn("unresolved reference", "label", name)
		return c.Rest(0), nil
	}
	out := []htmlconv.Output{htmlconv.Text(fmt.Sprintf(`<a href="#%s">%s</a>`,
		html.EscapeString(name), html.EscapeString(number)))}
	return append(out, c.Rest(1)...), nil
}

// CloneIgnore returns a copy of DefaultIgnore for callers that want to extend it.
func CloneIgnore() map[string]int {
	return maps.Clone(DefaultIgnore)
}
