package delim

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
)

// Precompiled patterns for the environment pass.
var (
	beginPattern = regexp.MustCompile(`\\begin\{(.*?)\}`)
	endPattern   = regexp.MustCompile(`\\end\{(.*?)\}`)
	// beginAt matches \begin{name} at the start of its input only.
	beginAt = regexp.MustCompile(`^\\begin\{([^{}]*)\}`)
)

// pass scans buf, appends what it finds to out and blanks its matches in buf.
type pass func(buf []byte, out []Delimiter) []Delimiter

// passes run in this exact order, after the content of raw environments
// has been blanked. Environments must be found before generic
// macros, otherwise \begin and \end would be scanned as macros. The line
// break token runs ahead of macro scanning because "\\" would otherwise be
// read as an escaped backslash followed by a macro.
var passes = []pass{
	findComments,
	findBeginEnd,
	findBraces,
	findMath,
	findNewlines,
	findMacros,
}

// Find returns every delimiter in text, sorted by start offset.
// Text markers are not included, see Fill.
//
// The content of an environment for which raw reports true is never
// scanned: only its \begin and \end are recorded. raw may be nil.
// Returns ErrOverlap if two delimiters share bytes.
func Find(text string, raw func(name string) bool) ([]Delimiter, error) {
	if text == "" {
		return nil, nil
	}

	buf := []byte(text)
	blankRaw(buf, raw)
	var out []Delimiter
	for _, p := range passes {
		out = p(buf, out)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start < out[j].Span.Start
	})

	for i := 1; i < len(out); i++ {
		if out[i-1].Span.End > out[i].Span.Start {
			return nil, fmt.Errorf("%w: %v and %v", ErrOverlap, out[i-1], out[i])
		}
	}
	return out, nil
}

// findComments records "%" to end of line. The "%" opens the comment and the
// terminating newline closes it. The comment text is blanked but the newline
// is kept. A comment without a terminating newline is not recorded.
func findComments(buf []byte, out []Delimiter) []Delimiter {
	blankEscaped(buf, '%')

	for i := 0; i < len(buf); i++ {
		if buf[i] != '%' {
			continue
		}
		nl := bytes.IndexByte(buf[i:], '\n')
		if nl < 0 {
			break
		}
		stop := i + nl
		out = append(out,
			Delimiter{Span: Span{i, i + 1}, Open: Open, Kind: Comment},
			Delimiter{Span: Span{stop, stop + 1}, Open: Close, Kind: Comment},
		)
		blank(buf[i:stop])
		i = stop
	}
	return out
}

// findBeginEnd records \begin{name} and \end{name}. All openings are found
// first and blanked, then all closings.
func findBeginEnd(buf []byte, out []Delimiter) []Delimiter {
	for _, m := range beginPattern.FindAllSubmatchIndex(buf, -1) {
		out = append(out, Delimiter{
			Span: Span{m[0], m[1]},
			Open: Open,
			Kind: Env,
			Name: string(buf[m[2]:m[3]]),
		})
	}
	for _, m := range beginPattern.FindAllIndex(buf, -1) {
		blank(buf[m[0]:m[1]])
	}

	for _, m := range endPattern.FindAllSubmatchIndex(buf, -1) {
		out = append(out, Delimiter{
			Span: Span{m[0], m[1]},
			Open: Close,
			Kind: Env,
			Name: string(buf[m[2]:m[3]]),
		})
	}
	for _, m := range endPattern.FindAllIndex(buf, -1) {
		blank(buf[m[0]:m[1]])
	}
	return out
}

// findBraces records every unescaped "{" and "}". The braces themselves stay
// in the buffer since they terminate macro names for the later passes.
func findBraces(buf []byte, out []Delimiter) []Delimiter {
	blankEscaped(buf, '{')
	blankEscaped(buf, '}')

	for i, c := range buf {
		switch c {
		case '{':
			out = append(out, Delimiter{Span: Span{i, i + 1}, Open: Open, Kind: Brace1})
		case '}':
			out = append(out, Delimiter{Span: Span{i, i + 1}, Open: Close, Kind: Brace1})
		}
	}
	return out
}

// findMath records $...$ and $$...$$ pairs and blanks them entirely.
// An inline formula closes at the next "$", a display formula at the next
// "$$". A dollar sign without a partner is left alone as plain text.
func findMath(buf []byte, out []Delimiter) []Delimiter {
	blankEscaped(buf, '$')

	for i := 0; i < len(buf); i++ {
		if buf[i] != '$' {
			continue
		}

		width, kind, closing := 1, Math1, []byte("$")
		if i+1 < len(buf) && buf[i+1] == '$' {
			width, kind, closing = 2, Math2, []byte("$$")
		}

		rel := bytes.Index(buf[i+width:], closing)
		if rel < 0 {
			i += width - 1
			continue
		}
		stop := i + width + rel
		out = append(out,
			Delimiter{Span: Span{i, i + width}, Open: Open, Kind: kind},
			Delimiter{Span: Span{stop, stop + width}, Open: Close, Kind: kind},
		)
		blank(buf[i : stop+width])
		i = stop + width - 1
	}
	return out
}

// findNewlines records the "\\" line break token.
func findNewlines(buf []byte, out []Delimiter) []Delimiter {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == '\\' && buf[i+1] == '\\' {
			out = append(out, Delimiter{Span: Span{i, i + 2}, Open: Atomic, Kind: Newline, Name: `\`})
			blank(buf[i : i+2])
			i++
		}
	}
	return out
}

// findMacros records "\name" tokens. The name is the longest run of ASCII
// letters after the backslash plus an optional trailing "*". A backslash not
// followed by a letter produces nothing; that covers escaped specials such as
// \$ or \_ and a lone backslash before whitespace.
func findMacros(buf []byte, out []Delimiter) []Delimiter {
	for i := 0; i < len(buf); i++ {
		if buf[i] != '\\' {
			continue
		}
		j := i + 1
		for j < len(buf) && isLetter(buf[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		if j < len(buf) && buf[j] == '*' {
			j++
		}
		out = append(out, Delimiter{
			Span: Span{i, j},
			Open: Atomic,
			Kind: Macro,
			Name: string(buf[i+1 : j]),
		})
		i = j - 1
	}
	return out
}

// blankRaw blanks the content of every raw environment, leaving its
// \begin and \end in place. It walks the text the way the comment pass
// will, so a \begin inside a comment opens nothing. A raw environment ends
// at the first \end with the same name; one that is never closed is left
// as is for the pruner to report.
func blankRaw(buf []byte, raw func(string) bool) {
	if raw == nil {
		return
	}
	for i := 0; i < len(buf); i++ {
		switch buf[i] {
		case '%':
			if nl := bytes.IndexByte(buf[i:], '\n'); nl >= 0 {
				i += nl
			}
		case '\\':
			if i+1 < len(buf) && buf[i+1] == '%' {
				i++
				continue
			}
			m := beginAt.FindSubmatchIndex(buf[i:])
			if m == nil {
				continue
			}
			name := string(buf[i+m[2] : i+m[3]])
			start := i + m[1]
			if !raw(name) {
				i = start - 1
				continue
			}
			end := []byte(`\end{` + name + `}`)
			k := bytes.Index(buf[start:], end)
			if k < 0 {
				return
			}
			blank(buf[start : start+k])
			i = start + k + len(end) - 1
		}
	}
}

// blankEscaped replaces every "\c" with two spaces.
func blankEscaped(buf []byte, c byte) {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == '\\' && buf[i+1] == c {
			buf[i], buf[i+1] = ' ', ' '
			i++
		}
	}
}

func blank(b []byte) {
	for i := range b {
		b[i] = ' '
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
