package pipeline

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoDocument is returned when \begin{document} or \end{document} is missing.
var ErrNoDocument = errors.New(`missing \begin{document} or \end{document}`)

var (
	beginDocument = regexp.MustCompile(`\\begin *\{document\}`)
	endDocument   = regexp.MustCompile(`\\end *\{document\}`)
	commentRun    = regexp.MustCompile(`%.*`)
	documentClass = regexp.MustCompile(`\\documentclass\[([^\]]*)\]`)
	fontSize      = regexp.MustCompile(`^\s*\d+pt\s*$`)
	titleMacro    = regexp.MustCompile(`\\title\{(.*?)\}`)
	authorMacro   = regexp.MustCompile(`\\author\{(.*?)\}`)
)

// SplitDocument returns the trimmed preamble and body of a LaTeX document.
// The document markers themselves belong to neither.
func SplitDocument(doc string) (preamble, body string, err error) {
	b := beginDocument.FindStringIndex(doc)
	e := endDocument.FindStringIndex(doc)
	if b == nil || e == nil || e[0] < b[1] {
		return "", "", ErrNoDocument
	}
	return strings.TrimSpace(doc[:b[0]]), strings.TrimSpace(doc[b[1]:e[0]]), nil
}

// NeutralizeComments blanks every LaTeX comment with spaces. Escaped percent
// signs become "xx". The result has the same length as s, so offsets found
// in it are valid in s.
func NeutralizeComments(s string) string {
	s = strings.ReplaceAll(s, `\%`, "xx")
	return commentRun.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}

// SanitizePreamble drops the font size option ("10pt", "12pt", ...) from the
// first \documentclass that is not commented out. Font sizes upset cropping
// of the rendered fragments.
func SanitizePreamble(preamble string) string {
	m := documentClass.FindStringSubmatchIndex(NeutralizeComments(preamble))
	if m == nil {
		return preamble
	}

	opts := strings.Split(preamble[m[2]:m[3]], ",")
	kept := opts[:0]
	for _, o := range opts {
		if !fontSize.MatchString(o) {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(opts) {
		return preamble
	}
	return preamble[:m[2]] + strings.Join(kept, ",") + preamble[m[3]:]
}

// Meta is the document metadata found in the preamble.
type Meta struct {
	Title  string
	Author string
}

// MetaInfo extracts \title and \author from the preamble, ignoring comments.
func MetaInfo(preamble string) Meta {
	clean := NeutralizeComments(preamble)
	meta := Meta{Title: "No Title", Author: "Unknown"}
	if m := titleMacro.FindStringSubmatch(clean); m != nil {
		meta.Title = m[1]
	}
	if m := authorMacro.FindStringSubmatch(clean); m != nil {
		meta.Author = m[1]
	}
	return meta
}
