// Package delim finds the structural delimiters of a LaTeX document body.
//
// Scanning runs in ordered passes (comments, \begin/\end, braces, math,
// the \\ line break, generic macros). Each pass blanks what it matched with
// spaces of equal length, so a later pass never sees an earlier delimiter and
// every span stays valid against the original text. Prune removes delimiters
// nested inside math and inside environments without a plugin, and Fill
// synthesizes zero-width text markers so the result partitions the input.
package delim

import (
	"errors"
	"fmt"
)

// Sentinel errors for delimiter operations.
var (
	ErrOverlap    = errors.New("overlapping delimiters")
	ErrUnbalanced = errors.New("unbalanced delimiters")
	ErrPartition  = errors.New("delimiters do not partition the input")
)

// Kind identifies what a delimiter bounds.
type Kind uint8

// Delimiter kinds.
const (
	Text Kind = iota
	Comment
	Env
	Brace1
	Brace2
	Math1
	Math2
	Newline
	Macro
)

var kindNames = [...]string{
	Text:    "text",
	Comment: "comment",
	Env:     "env",
	Brace1:  "brace1",
	Brace2:  "brace2",
	Math1:   "math1",
	Math2:   "math2",
	Newline: "newline",
	Macro:   "macro",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsMath reports whether k is an inline or display math delimiter.
func (k Kind) IsMath() bool {
	return k == Math1 || k == Math2
}

// Openness tells whether a delimiter opens a unit, closes one, or stands alone.
type Openness uint8

// Openness values. Atomic is used for macro and line break tokens.
const (
	Atomic Openness = iota
	Open
	Close
)

func (o Openness) String() string {
	switch o {
	case Open:
		return "open"
	case Close:
		return "close"
	default:
		return "none"
	}
}

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Delimiter is one lexical marker in the source text.
// Name holds the environment or macro name, empty for other kinds.
type Delimiter struct {
	Span Span
	Open Openness
	Kind Kind
	Name string
}

func (d Delimiter) String() string {
	if d.Name != "" {
		return fmt.Sprintf("%s %s %q %s", d.Kind, d.Open, d.Name, d.Span)
	}
	return fmt.Sprintf("%s %s %s", d.Kind, d.Open, d.Span)
}
