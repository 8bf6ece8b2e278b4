// Package doctree holds the structural tree of a LaTeX document body.
//
// Nodes live in a flat arena owned by Tree and refer to each other by
// NodeID. Each node records the source bytes between its own delimiters
// (Body); Prefix and Suffix give the delimiters back, so every internal node
// satisfies Body == concat(child.Source() for each child).
package doctree

import (
	"github.com/alnah/go-tex2html/internal/counters"
	"github.com/alnah/go-tex2html/internal/delim"
)

// NodeID indexes Tree.Nodes.
type NodeID int

// None marks the absent parent of the root.
const None NodeID = -1

// Root is always the first node of a built tree.
const Root NodeID = 0

// Names of nodes that are not macros or environments. They double as
// dispatch keys and fragment names.
const (
	NameText    = "text_"
	NameMath1   = "dollar1_"
	NameMath2   = "dollar2_"
	NameBrace1  = "curly1_"
	NameBrace2  = "curly2_"
	NameComment = "comment_"
	NameNewline = `\`
)

// Node is one structural unit of the body.
type Node struct {
	Kind     delim.Kind
	Name     string
	Span     delim.Span
	Body     string
	Parent   NodeID
	Children []NodeID
	// Snapshot indexes the tree's counter snapshots, -1 if there are none.
	Snapshot int
}

// Prefix returns the opening delimiter text of the node.
func (n *Node) Prefix() string {
	switch n.Kind {
	case delim.Math1:
		return "$"
	case delim.Math2:
		return "$$"
	case delim.Brace1:
		return "{"
	case delim.Brace2:
		return "{{"
	case delim.Comment:
		return "%"
	case delim.Env:
		return `\begin{` + n.Name + `}`
	case delim.Macro:
		return `\` + n.Name
	case delim.Newline:
		return `\\`
	default:
		return ""
	}
}

// Suffix returns the closing delimiter text of the node.
func (n *Node) Suffix() string {
	switch n.Kind {
	case delim.Math1:
		return "$"
	case delim.Math2:
		return "$$"
	case delim.Brace1:
		return "}"
	case delim.Brace2:
		return "}}"
	case delim.Comment:
		return "\n"
	case delim.Env:
		return `\end{` + n.Name + `}`
	default:
		return ""
	}
}

// Source reconstructs the LaTeX text of the node including its delimiters.
func (n *Node) Source() string {
	return n.Prefix() + n.Body + n.Suffix()
}

// IsEmptyText reports whether n is a text node without content.
func (n *Node) IsEmptyText() bool {
	return n.Kind == delim.Text && n.Body == ""
}

// IsOptionalArg reports whether n is a text node shaped like "[...]".
func (n *Node) IsOptionalArg() bool {
	return n.Kind == delim.Text && len(n.Body) >= 2 && n.Body[0] == '[' && n.Body[len(n.Body)-1] == ']'
}

func nodeName(d delim.Delimiter) string {
	switch d.Kind {
	case delim.Text:
		return NameText
	case delim.Math1:
		return NameMath1
	case delim.Math2:
		return NameMath2
	case delim.Brace1:
		return NameBrace1
	case delim.Brace2:
		return NameBrace2
	case delim.Comment:
		return NameComment
	case delim.Newline:
		return NameNewline
	default:
		return d.Name
	}
}

// Tree is the arena of nodes built from one document body.
type Tree struct {
	Source    string
	Nodes     []Node
	Snapshots counters.Snapshots
}

// Node returns the node with the given id. It panics on an invalid id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Valid reports whether id refers to a node of t.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.Nodes)
}

// Children returns a copy of the child list of id.
func (t *Tree) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), t.Nodes[id].Children...)
}

// Counters returns the counter values that apply to node id.
func (t *Tree) Counters(id NodeID) map[string]int {
	return t.Snapshots.Values(t.Nodes[id].Snapshot)
}

// NodeSource is shorthand for t.Node(id).Source().
func (t *Tree) NodeSource(id NodeID) string {
	return t.Nodes[id].Source()
}

func (t *Tree) add(parent NodeID, n Node) NodeID {
	id := NodeID(len(t.Nodes))
	n.Parent = parent
	t.Nodes = append(t.Nodes, n)
	if parent != None {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, id)
	}
	return id
}

// ExactCounters returns the counter values of the snapshot taken exactly at
// the start of node id, if there is one.
func (t *Tree) ExactCounters(id NodeID) (map[string]int, bool) {
	n := &t.Nodes[id]
	if n.Snapshot < 0 || t.Snapshots[n.Snapshot].Offset != n.Span.Start {
		return nil, false
	}
	return t.Snapshots.Values(n.Snapshot), true
}
