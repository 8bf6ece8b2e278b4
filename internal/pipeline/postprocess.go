package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var newlineRun = regexp.MustCompile(`\n+`)

// Prettify normalizes line breaks in the generated HTML. Whitespace-only
// lines become empty, a single newline becomes a space and a run of two or
// more newlines becomes exactly one blank line.
func Prettify(html string) string {
	html = strings.ReplaceAll(html, "\r\n", "\n")
	lines := strings.Split(html, "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lines[i] = ""
		}
	}
	return newlineRun.ReplaceAllStringFunc(strings.Join(lines, "\n"), func(m string) string {
		if len(m) == 1 {
			return " "
		}
		return "\n\n"
	})
}

// MetaComment returns an HTML comment naming the source document.
// date is printed as given; an empty date omits the line.
func MetaComment(meta Meta, date string) string {
	var b strings.Builder
	b.WriteString("<!--\n Converted with go-tex2html\n")
	fmt.Fprintf(&b, " Title: %s\n Author: %s\n", sanitizeComment(meta.Title), sanitizeComment(meta.Author))
	if date != "" {
		fmt.Fprintf(&b, " Date: %s\n", date)
	}
	b.WriteString("-->")
	return b.String()
}

// sanitizeComment keeps "--" out of an HTML comment.
func sanitizeComment(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}
