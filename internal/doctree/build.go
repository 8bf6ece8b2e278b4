package doctree

import (
	"fmt"

	"github.com/alnah/go-tex2html/internal/counters"
	"github.com/alnah/go-tex2html/internal/delim"
)

// Build turns a pruned and filled delimiter list into a tree over source.
// It walks the list once with a cursor: an open delimiter adds a child and
// descends, a close delimiter records the body of the current node and
// ascends, an atomic token adds a childless node. Each node is annotated with
// the counter snapshot that applies at its start offset.
//
// The finished tree is checked with Verify.
func Build(source string, delims []delim.Delimiter, snaps counters.Snapshots) (*Tree, error) {
	t := &Tree{
		Source:    source,
		Nodes:     make([]Node, 0, len(delims)/2+1),
		Snapshots: snaps,
	}
	t.add(None, Node{
		Kind:     delim.Text,
		Name:     NameText,
		Span:     delim.Span{Start: 0, End: len(source)},
		Body:     source,
		Snapshot: snaps.Lookup(0),
	})

	cur := Root
	for _, d := range delims {
		if d.Span.Start < 0 || d.Span.End > len(source) || d.Span.Start > d.Span.End {
			return nil, fmt.Errorf("%w: %v outside source of length %d", delim.ErrOverlap, d, len(source))
		}

		switch d.Open {
		case delim.Open:
			cur = t.add(cur, Node{
				Kind:     d.Kind,
				Name:     nodeName(d),
				Span:     d.Span,
				Snapshot: snaps.Lookup(d.Span.Start),
			})

		case delim.Close:
			n := &t.Nodes[cur]
			if cur == Root {
				return nil, fmt.Errorf("%w: %v closes nothing", delim.ErrUnbalanced, d)
			}
			if n.Kind != d.Kind || (d.Kind == delim.Env && n.Name != d.Name) {
				return nil, fmt.Errorf("%w: %v while %s %q opened at %d", delim.ErrUnbalanced, d, n.Kind, n.Name, n.Span.Start)
			}
			if d.Span.Start < n.Span.End {
				return nil, fmt.Errorf("%w: %v before end of its opening %v", delim.ErrOverlap, d, n.Span)
			}
			n.Body = source[n.Span.End:d.Span.Start]
			n.Span.End = d.Span.End
			cur = n.Parent

		default:
			t.add(cur, Node{
				Kind:     d.Kind,
				Name:     nodeName(d),
				Span:     d.Span,
				Snapshot: snaps.Lookup(d.Span.Start),
			})
		}
	}

	if cur != Root {
		n := t.Nodes[cur]
		return nil, fmt.Errorf("%w: %s %q opened at %d is never closed", delim.ErrUnbalanced, n.Kind, n.Name, n.Span.Start)
	}

	if err := t.Verify(); err != nil {
		return nil, err
	}
	return t, nil
}

// Parse runs the whole front end on source: scan, prune, fill, build.
// transparent reports which environment and macro names have a plugin; raw
// reports the environments whose content is not scanned at all. Either may
// be nil.
func Parse(source string, transparent, raw func(string) bool, snaps counters.Snapshots) (*Tree, error) {
	found, err := delim.Find(source, raw)
	if err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}
	pruned, err := delim.Prune(found, transparent)
	if err != nil {
		return nil, fmt.Errorf("pruning: %w", err)
	}
	filled := delim.Fill(pruned, len(source))
	if err := delim.CheckPartition(filled, len(source)); err != nil {
		return nil, fmt.Errorf("filling: %w", err)
	}
	t, err := Build(source, filled, snaps)
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}
	return t, nil
}

// Adopt moves args under macro, in order, and rewrites the macro body to the
// concatenated source of its children. Each arg is detached from its current
// parent first. The macro span is extended over the adopted nodes.
func (t *Tree) Adopt(macro NodeID, args []NodeID) error {
	if len(args) == 0 {
		return nil
	}
	m := &t.Nodes[macro]
	for _, a := range args {
		if a == macro || !t.Valid(a) {
			return fmt.Errorf("adopting node %d into %d: invalid argument", a, macro)
		}
		t.detach(a)
		t.Nodes[a].Parent = macro
		m.Children = append(m.Children, a)
		if end := t.Nodes[a].Span.End; end > m.Span.End {
			m.Span.End = end
		}
	}

	body := make([]byte, 0, m.Span.Len())
	for _, c := range m.Children {
		body = append(body, t.Nodes[c].Source()...)
	}
	m.Body = string(body)
	return t.verifyNode(macro)
}

func (t *Tree) detach(id NodeID) {
	p := t.Nodes[id].Parent
	if p == None {
		return
	}
	kids := t.Nodes[p].Children
	for i, c := range kids {
		if c == id {
			t.Nodes[p].Children = append(kids[:i:i], kids[i+1:]...)
			return
		}
	}
}
