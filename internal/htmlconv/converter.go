package htmlconv

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"

	"github.com/alnah/go-tex2html/internal/delim"
	"github.com/alnah/go-tex2html/internal/doctree"
)

// Default formats and names.
const (
	DefaultPlaceholderFormat = "%s-%06d"
	DefaultTagFormat         = `<img src="%s" style="vertical-align: middle;">`
)

// DefaultBenign lists names that become fragments without a diagnostic.
var DefaultBenign = []string{
	doctree.NameMath1, doctree.NameMath2, doctree.NameBrace1, doctree.NameBrace2,
	"equation", "align", "figure", "tikzpicture", doctree.NameComment,
}

// Miss records a macro or environment that had no plugin.
type Miss struct {
	Kind delim.Kind
	Name string
	Span delim.Span
}

// Result is the outcome of one conversion.
type Result struct {
	HTML        string
	Fragments   []Fragment
	Unconverted []Miss
}

// Option configures a Converter.
type Option func(*Converter)

// WithPlaceholderFormat sets the fmt format applied to (name, ordinal).
func WithPlaceholderFormat(format string) Option {
	return func(c *Converter) {
		if format != "" {
			c.placeholderFormat = format
		}
	}
}

// WithTagFormat sets the fmt format applied to the placeholder.
func WithTagFormat(format string) Option {
	return func(c *Converter) {
		if format != "" {
			c.tagFormat = format
		}
	}
}

// WithBenign replaces the names exempt from the Unconverted list.
func WithBenign(names []string) Option {
	return func(c *Converter) {
		c.benign = make(map[string]bool, len(names))
		for _, n := range names {
			c.benign[n] = true
		}
	}
}

// WithLogger sets the logger used for plugin calls and misses.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// Converter turns document trees into HTML. It holds no per-document state
// and may be used for many conversions.
type Converter struct {
	plugins           *PluginSet
	placeholderFormat string
	tagFormat         string
	benign            map[string]bool
	logger            *slog.Logger
}

// New creates a Converter dispatching to plugins, which may be nil.
func New(plugins *PluginSet, opts ...Option) *Converter {
	c := &Converter{
		plugins:           plugins,
		placeholderFormat: DefaultPlaceholderFormat,
		tagFormat:         DefaultTagFormat,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	WithBenign(DefaultBenign)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Plugins returns the plugin set the converter dispatches to.
func (c *Converter) Plugins() *PluginSet {
	return c.plugins
}

// Convert walks tree and returns its HTML with fragment placeholders.
// The tree is modified: macros adopt the arguments they gather.
func (c *Converter) Convert(ctx context.Context, tree *doctree.Tree) (*Result, error) {
	w := &walker{
		conv: c,
		tree: tree,
		reg:  &Registry{},
	}
	body, err := w.walk(ctx, tree.Children(doctree.Root), nil)
	if err != nil {
		return nil, err
	}
	c.logger.Info("converted document",
		"nodes", len(tree.Nodes),
		"fragments", w.reg.Len(),
		"unconverted", len(w.misses))
	return &Result{
		HTML:        body,
		Fragments:   w.reg.All(),
		Unconverted: w.misses,
	}, nil
}

// walker holds the state of one conversion.
type walker struct {
	conv   *Converter
	tree   *doctree.Tree
	reg    *Registry
	misses []Miss
}

// expansion links a dispatched node to the expansion whose output held it.
// A node found again up its own chain would expand forever.
type expansion struct {
	node doctree.NodeID
	up   *expansion
}

func (e *expansion) contains(id doctree.NodeID) bool {
	for ; e != nil; e = e.up {
		if e.node == id {
			return true
		}
	}
	return false
}

// item is a queued output together with the expansion that produced it.
type item struct {
	Output
	from *expansion
}

func items(out []Output, from *expansion) []item {
	q := make([]item, len(out))
	for i, o := range out {
		q[i] = item{Output: o, from: from}
	}
	return q
}

// walk converts a sibling sequence. Items are taken from the front of a work
// queue; plugin output is pushed onto the front of a fresh queue.
func (w *walker) walk(ctx context.Context, ids []doctree.NodeID, from *expansion) (string, error) {
	queue := items(Subtrees(ids...), from)
	var b strings.Builder

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		it := queue[0]
		queue = queue[1:]

		switch it.Kind {
		case KindText:
			b.WriteString(it.Text)
			continue
		case KindSubtree:
			if !w.tree.Valid(it.Node) {
				return "", fmt.Errorf("%w: unknown node %d", ErrPluginContract, it.Node)
			}
		default:
			return "", fmt.Errorf("%w: output kind %d", ErrPluginContract, it.Kind)
		}

		id := it.Node
		n := w.tree.Node(id)

		if n.Kind == delim.Macro {
			var args []doctree.NodeID
			for len(queue) > 0 && w.isArgument(queue[0].Output) {
				args = append(args, queue[0].Node)
				queue = queue[1:]
			}
			if err := w.tree.Adopt(id, args); err != nil {
				return "", fmt.Errorf("gathering arguments of \\%s: %w", n.Name, err)
			}
		}

		switch {
		case n.Kind == delim.Text:
			b.WriteString(TextToHTML(n.Body))

		case n.Kind == delim.Brace1:
			if inner, ok := w.doubleBrace(id); ok {
				w.fragment(&b, id, doctree.NameBrace2, "{{"+w.tree.Node(inner).Body+"}}", true)
				continue
			}
			sub, err := w.walk(ctx, w.tree.Children(id), it.from)
			if err != nil {
				return "", err
			}
			b.WriteString(sub)

		case n.Kind == delim.Newline:
			b.WriteString("<p>")

		default:
			p, ok := w.conv.plugins.Lookup(n.Name)
			if !ok {
				w.miss(&b, id)
				continue
			}
			if it.from.contains(id) {
				return "", fmt.Errorf("%w: plugin %q at offset %d reached itself through its own output",
					ErrPluginContract, n.Name, n.Span.Start)
			}
			out, err := w.dispatch(ctx, p, id)
			if err != nil {
				return "", err
			}
			next := items(out, &expansion{node: id, up: it.from})
			queue = append(next, queue...)
		}
	}
	return b.String(), nil
}

// isArgument reports whether a queued item is a macro argument: a brace
// group or a text node shaped like "[...]".
func (w *walker) isArgument(o Output) bool {
	if o.Kind != KindSubtree || !w.tree.Valid(o.Node) {
		return false
	}
	n := w.tree.Node(o.Node)
	return n.Kind == delim.Brace1 || n.IsOptionalArg()
}

// doubleBrace reports whether id is "{{...}}": a brace group whose only
// child is another brace group. It returns the inner group.
func (w *walker) doubleBrace(id doctree.NodeID) (doctree.NodeID, bool) {
	kids := w.tree.Node(id).Children
	if len(kids) != 1 || w.tree.Node(kids[0]).Kind != delim.Brace1 {
		return doctree.None, false
	}
	return kids[0], true
}

func (w *walker) dispatch(ctx context.Context, p Plugin, id doctree.NodeID) ([]Output, error) {
	n := w.tree.Node(id)
	call := &Call{
		Tree:   w.tree,
		Node:   id,
		Args:   w.tree.Children(id),
		Logger: w.conv.logger,
	}
	w.conv.logger.Debug("plugin", "name", n.Name, "args", len(call.Args), "offset", n.Span.Start)

	out, err := p.Convert(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("plugin %q at offset %d: %w", n.Name, n.Span.Start, err)
	}

	clean := out[:0:0]
	for _, o := range out {
		switch o.Kind {
		case KindText:
			if o.Text == "" {
				continue
			}
		case KindSubtree:
			if o.Node == id || !w.tree.Valid(o.Node) {
				return nil, fmt.Errorf("%w: plugin %q returned node %d", ErrPluginContract, n.Name, o.Node)
			}
		default:
			return nil, fmt.Errorf("%w: plugin %q returned output kind %d", ErrPluginContract, n.Name, o.Kind)
		}
		clean = append(clean, o)
	}
	return clean, nil
}

// miss turns a node without plugin into a fragment and records it unless
// its name is benign.
func (w *walker) miss(b *strings.Builder, id doctree.NodeID) {
	n := w.tree.Node(id)
	w.fragment(b, id, n.Name, n.Source(), n.Kind != delim.Env)
	if !w.conv.benign[n.Name] {
		w.misses = append(w.misses, Miss{Kind: n.Kind, Name: n.Name, Span: n.Span})
	}
	w.conv.logger.Debug("no plugin", "name", n.Name, "kind", n.Kind.String(), "offset", n.Span.Start)
}

// fragment appends a fragment for node id and writes its placeholder tag,
// wrapped in anchors for every label the source defines.
func (w *walker) fragment(b *strings.Builder, id doctree.NodeID, name, tex string, inline bool) {
	n := w.tree.Node(id)
	placeholder := fmt.Sprintf(w.conv.placeholderFormat, name, w.reg.Len())
	w.reg.Append(Fragment{
		Name:        name,
		Placeholder: placeholder,
		Tex:         tex,
		Inline:      inline,
		Span:        n.Span,
		Counters:    w.tree.Counters(id),
	})

	names := labels(n.Body)
	for _, l := range names {
		fmt.Fprintf(b, `<a name="%s">`, html.EscapeString(l))
	}
	tag := fmt.Sprintf(w.conv.tagFormat, placeholder)
	if !inline {
		tag = `<div align="center">` + tag + `</div>`
	}
	b.WriteString(tag)
	b.WriteString(strings.Repeat("</a>", len(names)))
}
