package plugins

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-tex2html/internal/htmlconv"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// ErrUnknownStyle is returned for a style chroma does not register.
var ErrUnknownStyle = errors.New("unknown highlight style")

var languageOption = regexp.MustCompile(`(?i)language\s*=\s*\{?([A-Za-z0-9+#_-]+)`)

// Highlighter renders verbatim-like environments as highlighted code. It is
// a raw plugin: the environment content is taken as is, never scanned.
type Highlighter struct {
	Style string
	// Options is set for environments that take "[key=value,...]" right
	// after \begin{...}, as lstlisting does.
	Options bool
}

var _ htmlconv.RawPlugin = Highlighter{}

// Raw marks Highlighter as a raw plugin.
func (Highlighter) Raw() {}

// Convert highlights the body of the environment.
func (h Highlighter) Convert(_ context.Context, c *htmlconv.Call) ([]htmlconv.Output, error) {
	code := c.Tree.Node(c.Node).Body
	lang := ""
	if h.Options && strings.HasPrefix(code, "[") {
		if end := strings.IndexByte(code, ']'); end > 0 {
			if m := languageOption.FindStringSubmatch(code[1:end]); m != nil {
				lang = m[1]
			}
			code = code[end+1:]
		}
	}
	code = strings.TrimPrefix(code, "\n")

	out, err := Highlight(code, lang, h.Style)
	if err != nil {
		return nil, fmt.Errorf("highlighting %s: %w", c.Name(), err)
	}
	return []htmlconv.Output{htmlconv.Text(out)}, nil
}

// ValidateStyle reports whether chroma registers the named style. The empty
// name selects DefaultStyle and is valid.
func ValidateStyle(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := styles.Registry[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
	return nil
}

// StyleNames lists the registered chroma styles.
func StyleNames() []string {
	return styles.Names()
}

// Highlight renders code as HTML with inline styles. An empty or unknown
// lang falls back to content detection, then to plain text.
func Highlight(code, lang, style string) (string, error) {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	if style == "" {
		style = DefaultStyle
	}
	formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4))

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := formatter.Format(&b, styles.Get(style), it); err != nil {
		return "", err
	}
	return b.String(), nil
}
