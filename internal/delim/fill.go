package delim

import "fmt"

// Fill inserts zero-width text markers for every gap between consecutive
// delimiters, before the first and after the last, so the returned list
// accounts for every byte of a text of length n. A text run [a, b) becomes an
// Open marker at a followed by a Close marker at b.
func Fill(delims []Delimiter, n int) []Delimiter {
	out := make([]Delimiter, 0, 2*len(delims)+2)
	start := 0
	for _, d := range delims {
		if d.Kind == Text {
			continue
		}
		if start < d.Span.Start {
			out = appendText(out, start, d.Span.Start)
		}
		out = append(out, d)
		start = d.Span.End
	}
	if start < n {
		out = appendText(out, start, n)
	}
	return out
}

func appendText(out []Delimiter, start, stop int) []Delimiter {
	return append(out,
		Delimiter{Span: Span{start, start}, Open: Open, Kind: Text},
		Delimiter{Span: Span{stop, stop}, Open: Close, Kind: Text},
	)
}

// CheckPartition verifies that a filled delimiter list covers [0, n) with no
// gap and no overlap. Text markers cover the bytes between their open and
// close positions, every other delimiter covers its own span.
func CheckPartition(delims []Delimiter, n int) error {
	pos := 0
	for i := 0; i < len(delims); i++ {
		d := delims[i]
		if d.Kind == Text {
			if d.Open != Open || i+1 >= len(delims) || delims[i+1].Kind != Text || delims[i+1].Open != Close {
				return fmt.Errorf("%w: dangling text marker at %d", ErrPartition, d.Span.Start)
			}
			if d.Span.Start != pos {
				return fmt.Errorf("%w: text starts at %d, want %d", ErrPartition, d.Span.Start, pos)
			}
			pos = delims[i+1].Span.Start
			i++
			continue
		}
		if d.Span.Start != pos {
			return fmt.Errorf("%w: %v starts at %d, want %d", ErrPartition, d, d.Span.Start, pos)
		}
		pos = d.Span.End
	}
	if pos != n {
		return fmt.Errorf("%w: coverage ends at %d, want %d", ErrPartition, pos, n)
	}
	return nil
}
