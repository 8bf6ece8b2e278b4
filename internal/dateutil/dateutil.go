// Package dateutil resolves the date stamp written into the HTML metadata
// comment. Formats use readable tokens instead of Go's reference time.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an unusable date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength bounds format strings read from config.
const MaxDateFormatLength = 50

// DefaultDateFormat matches the stamp LaTeX users know from \today in
// British style, e.g. "07 Mar 2026".
const DefaultDateFormat = "DD MMM YYYY"

// Tokens, longest first so that a greedy scan picks "MMMM" over "MM".
var tokens = []struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named formats accepted after "auto:".
var Presets = map[string]string{
	"iso":  "YYYY-MM-DD",
	"long": "MMMM D, YYYY",
	"tex":  DefaultDateFormat,
}

// Layout converts a token format into a Go time layout. Text inside square
// brackets is copied literally.
func Layout(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: empty", ErrInvalidDateFormat)
	case len(format) > MaxDateFormatLength:
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	for rest := format; rest != ""; {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket in %q", ErrInvalidDateFormat, format)
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		n := 1
		layout := rest[:1]
		for _, t := range tokens {
			if strings.HasPrefix(rest, t.token) {
				n, layout = len(t.token), t.layout
				break
			}
		}
		b.WriteString(layout)
		rest = rest[n:]
	}
	return b.String(), nil
}

// Resolve returns the stamp for value at time now:
//   - "" or "none": no stamp
//   - "auto": now in DefaultDateFormat
//   - "auto:FORMAT" or "auto:PRESET": now in that format
//   - anything else: value unchanged
func Resolve(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	switch {
	case lower == "" || lower == "none":
		return "", nil
	case lower == "auto":
		value = "auto:" + DefaultDateFormat
	case !strings.HasPrefix(lower, "auto:"):
		return value, nil
	}

	format := value[len("auto:"):]
	if p, ok := Presets[strings.ToLower(format)]; ok {
		format = p
	}
	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return now.Format(layout), nil
}
