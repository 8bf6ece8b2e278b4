package plugins

import (
	"context"
	"strconv"
	"strings"
)

// Sectioning levels, outermost first.
var sectionCounters = [...]string{"section", "subsection", "subsubsection"}

// Numbering tracks section numbers during one conversion.
// It is not safe for concurrent use; each conversion owns one.
type Numbering struct {
	levels [len(sectionCounters)]int
}

// NewNumbering returns numbering starting before the first section.
func NewNumbering() *Numbering {
	return &Numbering{}
}

// Next advances the counter at level (0 for section) and returns the dotted
// number, e.g. "2.1". When exact holds the counter values recorded right
// before the heading, numbering first resynchronizes to them so that the
// HTML agrees with the LaTeX output.
func (n *Numbering) Next(level int, exact map[string]int) string {
	if level < 0 || level >= len(n.levels) {
		return ""
	}
	for i, name := range sectionCounters {
		if v, ok := exact[name]; ok {
			n.levels[i] = v
		}
	}
	n.levels[level]++
	for i := level + 1; i < len(n.levels); i++ {
		n.levels[i] = 0
	}

	parts := make([]string, level+1)
	for i := range parts {
		parts[i] = strconv.Itoa(n.levels[i])
	}
	return strings.Join(parts, ".")
}

type numberingKey struct{}

// WithNumbering attaches n to ctx.
func WithNumbering(ctx context.Context, n *Numbering) context.Context {
	return context.WithValue(ctx, numberingKey{}, n)
}

// NumberingFrom returns the numbering attached to ctx, or nil.
func NumberingFrom(ctx context.Context) *Numbering {
	n, _ := ctx.Value(numberingKey{}).(*Numbering)
	return n
}

type labelsKey struct{}

// WithLabels attaches the label table read from the .aux file to ctx.
func WithLabels(ctx context.Context, labels map[string]string) context.Context {
	return context.WithValue(ctx, labelsKey{}, labels)
}

// LabelsFrom returns the label table attached to ctx, or nil.
func LabelsFrom(ctx context.Context) map[string]string {
	m, _ := ctx.Value(labelsKey{}).(map[string]string)
	return m
}
