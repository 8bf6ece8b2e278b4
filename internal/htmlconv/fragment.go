package htmlconv

import (
	"maps"

	"github.com/alnah/go-tex2html/internal/delim"
)

// Fragment describes one LaTeX snippet that no plugin converts and that is
// rendered to an image by an external tool.
type Fragment struct {
	// Name is the macro, environment or node name, e.g. "dollar1_".
	Name string `yaml:"name"`
	// Placeholder is unique per conversion and doubles as the image file
	// name without extension.
	Placeholder string `yaml:"placeholder"`
	// Tex is the reconstructed LaTeX source including delimiters.
	Tex string `yaml:"tex"`
	// Inline is false for environments, which are laid out as blocks.
	Inline   bool           `yaml:"inline"`
	Span     delim.Span     `yaml:"span"`
	Counters map[string]int `yaml:"counters"`
}

// Registry collects fragments in document order. It is append-only: the
// ordinal of a fragment is the registry length at the moment it was added.
type Registry struct {
	frags []Fragment
}

// Len returns the number of fragments, which is also the next ordinal.
func (r *Registry) Len() int {
	return len(r.frags)
}

// Append adds f and returns its ordinal.
func (r *Registry) Append(f Fragment) int {
	f.Counters = maps.Clone(f.Counters)
	r.frags = append(r.frags, f)
	return len(r.frags) - 1
}

// All returns a copy of the fragments.
func (r *Registry) All() []Fragment {
	out := make([]Fragment, len(r.frags))
	for i, f := range r.frags {
		f.Counters = maps.Clone(f.Counters)
		out[i] = f
	}
	return out
}
