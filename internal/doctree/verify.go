package doctree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/alnah/go-tex2html/internal/delim"
)

// ErrInconsistent is wrapped by InconsistencyError.
var ErrInconsistent = errors.New("tree is inconsistent")

// InconsistencyError reports a node whose body differs from the concatenated
// source of its children. It carries both strings for post-mortem analysis.
type InconsistencyError struct {
	Node     NodeID
	Name     string
	Span     delim.Span
	Recorded string
	Rebuilt  string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("%v: node %d (%s) at %s", ErrInconsistent, e.Node, e.Name, e.Span)
}

func (e *InconsistencyError) Unwrap() error {
	return ErrInconsistent
}

// Diff returns a unified-style patch that turns the recorded body into the
// rebuilt one.
func (e *InconsistencyError) Diff() string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(e.Recorded, e.Rebuilt, false)
	return dmp.PatchToText(dmp.PatchMake(e.Recorded, diffs))
}

// Dump renders both bodies and the diff for a log file or terminal.
func (e *InconsistencyError) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", e.Error())
	fmt.Fprintf(&b, "--- recorded body (%d bytes)\n%s\n", len(e.Recorded), e.Recorded)
	fmt.Fprintf(&b, "--- rebuilt body (%d bytes)\n%s\n", len(e.Rebuilt), e.Rebuilt)
	fmt.Fprintf(&b, "--- diff\n%s", e.Diff())
	return b.String()
}

// Verify checks every internal node, deepest first. Children are always
// appended after their parent, so a reverse scan of the arena is bottom-up.
func (t *Tree) Verify() error {
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		if err := t.verifyNode(NodeID(i)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) verifyNode(id NodeID) error {
	n := &t.Nodes[id]
	if len(n.Children) == 0 {
		return nil
	}
	var b strings.Builder
	b.Grow(len(n.Body))
	for _, c := range n.Children {
		b.WriteString(t.Nodes[c].Source())
	}
	if rebuilt := b.String(); rebuilt != n.Body {
		return &InconsistencyError{
			Node:     id,
			Name:     n.Name,
			Span:     n.Span,
			Recorded: n.Body,
			Rebuilt:  rebuilt,
		}
	}
	return nil
}
