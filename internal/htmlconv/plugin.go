package htmlconv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/alnah/go-tex2html/internal/doctree"
)

// ErrPluginContract is returned when a plugin hands back output the converter
// cannot use.
var ErrPluginContract = errors.New("plugin contract violation")

// OutputKind tags an Output.
type OutputKind uint8

// The zero OutputKind is invalid so that an unset Output is caught.
const (
	_ OutputKind = iota
	KindText
	KindSubtree
)

// Output is one element of a plugin result: either literal HTML text or a
// tree node that still needs converting.
type Output struct {
	Kind OutputKind
	Text string
	Node doctree.NodeID
}

// Text returns an Output that is emitted verbatim.
func Text(html string) Output {
	return Output{Kind: KindText, Text: html}
}

// Subtree returns an Output that is converted in place of the plugin's node.
func Subtree(id doctree.NodeID) Output {
	return Output{Kind: KindSubtree, Node: id}
}

// Subtrees wraps every id with Subtree.
func Subtrees(ids ...doctree.NodeID) []Output {
	out := make([]Output, len(ids))
	for i, id := range ids {
		out[i] = Subtree(id)
	}
	return out
}

// Call describes one plugin invocation.
type Call struct {
	Tree *doctree.Tree
	// Node is the macro or environment being converted.
	Node doctree.NodeID
	// Args are the children of Node: gathered arguments for a macro, the
	// content for an environment.
	Args   []doctree.NodeID
	Logger *slog.Logger
}

// Name returns the macro or environment name.
func (c *Call) Name() string {
	return c.Tree.Node(c.Node).Name
}

// Arg returns the i-th argument, or nil if there are fewer.
func (c *Call) Arg(i int) *doctree.Node {
	if i < 0 || i >= len(c.Args) {
		return nil
	}
	return c.Tree.Node(c.Args[i])
}

// Rest returns arguments i and later as subtrees.
func (c *Call) Rest(i int) []Output {
	if i >= len(c.Args) {
		return nil
	}
	return Subtrees(c.Args[i:]...)
}

// Counters returns the counter snapshot of the invoking node.
func (c *Call) Counters() map[string]int {
	return c.Tree.Counters(c.Node)
}

// ExactCounters returns the snapshot recorded exactly at the invoking node,
// if the counter feed has one.
func (c *Call) ExactCounters() (map[string]int, bool) {
	return c.Tree.ExactCounters(c.Node)
}

// Plugin converts one macro or environment.
//
// A plugin must only return nodes it received in Call.Args (or their
// descendants) and must not return Call.Node itself.
type Plugin interface {
	Convert(ctx context.Context, c *Call) ([]Output, error)
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(ctx context.Context, c *Call) ([]Output, error)

// Convert calls f.
func (f PluginFunc) Convert(ctx context.Context, c *Call) ([]Output, error) {
	return f(ctx, c)
}

// RawPlugin marks a plugin for an environment whose content must not be
// scanned: the environment stays opaque when pruning, and the plugin reads
// the raw node body instead of converted children.
type RawPlugin interface {
	Plugin
	Raw()
}

// Compile-time interface checks.
var _ Plugin = PluginFunc(nil)

// PluginSet maps macro and environment names to plugins. It is built once
// and read-only afterwards, so one set can serve concurrent conversions.
type PluginSet struct {
	byName map[string]Plugin
}

// NewPluginSet copies m into a new set. Nil plugins are rejected.
func NewPluginSet(m map[string]Plugin) (*PluginSet, error) {
	set := &PluginSet{byName: make(map[string]Plugin, len(m))}
	for name, p := range m {
		if p == nil {
			return nil, fmt.Errorf("%w: nil plugin for %q", ErrPluginContract, name)
		}
		set.byName[name] = p
	}
	return set, nil
}

// Lookup returns the plugin registered for name.
func (s *PluginSet) Lookup(name string) (Plugin, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.byName[name]
	return p, ok
}

// Transparent reports whether the content of name is scanned, that is name
// has a plugin that is not raw. It is the predicate handed to the pruner.
func (s *PluginSet) Transparent(name string) bool {
	p, ok := s.Lookup(name)
	if !ok {
		return false
	}
	_, raw := p.(RawPlugin)
	return !raw
}

// Raw reports whether name has a raw plugin, whose environment content the
// scanner must skip. It is the predicate handed to the scanner.
func (s *PluginSet) Raw(name string) bool {
	p, ok := s.Lookup(name)
	if !ok {
		return false
	}
	_, raw := p.(RawPlugin)
	return raw
}

// Names returns the registered names in sorted order.
func (s *PluginSet) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.byName))
}

// With returns a new set with extra added on top of s.
func (s *PluginSet) With(extra map[string]Plugin) (*PluginSet, error) {
	merged := make(map[string]Plugin, len(extra))
	if s != nil {
		maps.Copy(merged, s.byName)
	}
	maps.Copy(merged, extra)
	return NewPluginSet(merged)
}

// Without returns a new set lacking the given names.
func (s *PluginSet) Without(names ...string) *PluginSet {
	out := &PluginSet{byName: make(map[string]Plugin)}
	if s != nil {
		maps.Copy(out.byName, s.byName)
	}
	for _, n := range names {
		delete(out.byName, n)
	}
	return out
}
