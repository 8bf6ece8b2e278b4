package delim

import "fmt"

// Prune collapses everything that must stay atomic into single spans.
//
// Math interiors are always dropped, whatever plugins exist. Environments
// for which hasPlugin reports false are opaque: every delimiter strictly
// between the opening and its matching closing (nested openings of the same
// name are counted) is dropped while the pair itself is kept. Environments
// with a plugin stay transparent.
//
// Prune is idempotent. Returns ErrUnbalanced if an opaque environment is
// never closed.
func Prune(delims []Delimiter, hasPlugin func(name string) bool) ([]Delimiter, error) {
	if hasPlugin == nil {
		hasPlugin = func(string) bool { return false }
	}

	outside := make([]Delimiter, 0, len(delims))
	keep := true
	for _, d := range delims {
		switch {
		case d.Kind.IsMath():
			outside = append(outside, d)
			keep = !keep
		case keep:
			outside = append(outside, d)
		}
	}

	out := make([]Delimiter, 0, len(outside))
	for i := 0; i < len(outside); i++ {
		d := outside[i]
		out = append(out, d)
		if d.Kind != Env || d.Open != Open || hasPlugin(d.Name) {
			continue
		}

		depth := 1
		for depth > 0 {
			i++
			if i >= len(outside) {
				return nil, fmt.Errorf("%w: environment %q opened at %d is never closed",
					ErrUnbalanced, d.Name, d.Span.Start)
			}
			next := outside[i]
			if next.Kind != Env || next.Name != d.Name {
				continue
			}
			if next.Open == Open {
				depth++
			} else {
				depth--
			}
			if depth == 0 {
				out = append(out, next)
			}
		}
	}
	return out, nil
}
