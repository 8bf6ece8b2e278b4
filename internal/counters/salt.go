package counters

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// StreamName is the LaTeX output stream the salted document writes to.
// With the newfile package the dump lands in "<jobname>.nobby".
const StreamName = "nobby"

// Defaults for SaltOptions.
var (
	DefaultNames  = []string{"chapter", "section", "subsection", "subsubsection", "equation", "figure", "table", "footnote"}
	DefaultEnvs   = []string{"equation", "align", "eqnarray", "multline", "gather", "figure", "table"}
	DefaultMacros = []string{"chapter", "section", "subsection", "subsubsection"}
)

// SaltOptions selects where dumps are inserted and which counters they record.
type SaltOptions struct {
	Names  []string
	Envs   []string
	Macros []string
}

func (o SaltOptions) withDefaults() SaltOptions {
	if len(o.Names) == 0 {
		o.Names = DefaultNames
	}
	if len(o.Envs) == 0 {
		o.Envs = DefaultEnvs
	}
	if len(o.Macros) == 0 {
		o.Macros = DefaultMacros
	}
	return o
}

// Salt returns body with a counter dump inserted in front of every configured
// \begin{env} and \macro. A macro only matches when the name is not followed
// by a letter or "*". Offsets written to the dump refer to body as given, so
// the parsed snapshots line up with the unsalted source.
func Salt(body string, opts SaltOptions) string {
	opts = opts.withDefaults()
	pat := saltPattern(opts)

	var b strings.Builder
	last := 0
	for _, m := range pat.FindAllStringIndex(body, -1) {
		isMacro := body[m[1]-1] != '}'
		if isMacro && m[1] < len(body) && isNameByte(body[m[1]]) {
			continue
		}
		b.WriteString(body[last:m[0]])
		writeDump(&b, m[0], m[1], opts.Names)
		b.WriteString(body[m[0]:m[1]])
		last = m[1]
	}
	b.WriteString(body[last:])
	return b.String()
}

// SaltDocument wraps Salt into a complete document ready for compilation.
func SaltDocument(preamble, body string, opts SaltOptions) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\\usepackage{newfile}\n")
	fmt.Fprintf(&b, "\\newoutputstream{%s}\n", StreamName)
	fmt.Fprintf(&b, "\\openoutputfile{\\jobname.%s}{%s}\n", StreamName, StreamName)
	b.WriteString("\n\\begin{document}\n")
	b.WriteString(Salt(body, opts))
	fmt.Fprintf(&b, "\n\n\\closeoutputstream{%s}\n\\end{document}\n", StreamName)
	return b.String()
}

// saltPattern matches the configured environments and macro names. Longer
// names come first so that "subsection" wins over a configured "sub".
func saltPattern(opts SaltOptions) *regexp.Regexp {
	alt := func(names []string) string {
		q := make([]string, len(names))
		for i, n := range names {
			q[i] = regexp.QuoteMeta(n)
		}
		sort.SliceStable(q, func(i, j int) bool { return len(q[i]) > len(q[j]) })
		return strings.Join(q, "|")
	}
	return regexp.MustCompile(`\\begin\{(?:` + alt(opts.Envs) + `)\}|\\(?:` + alt(opts.Macros) + `)`)
}

func isNameByte(c byte) bool {
	return c == '*' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func writeDump(b *strings.Builder, start, stop int, names []string) {
	fmt.Fprintf(b, `\addtostream{%s}{%d\\%d\\`, StreamName, start, stop)
	for _, n := range names {
		fmt.Fprintf(b, `%s\\ \arabic{%s}\\`, n, n)
	}
	b.WriteString("}")
}
