package htmlconv

import (
	"regexp"
	"strings"
)

// textReplacer undoes LaTeX escapes and makes the result safe as HTML text.
var textReplacer = strings.NewReplacer(
	`\#`, "#",
	`\$`, "$",
	`\%`, "%",
	`\&`, "&",
	`\\`, `\`,
	`\^`, "^",
	`\_`, "_",
	`\{`, "{",
	`\}`, "}",
	`\~`, "~",
	"<", "&lt;",
	">", "&gt;",
	"``", "&ldquo;",
	"''", "&rdquo;",
)

var paragraphPattern = regexp.MustCompile(`\n *?\n`)

// TextToHTML converts the content of a text node.
// A blank line becomes "<p>".
func TextToHTML(body string) string {
	return paragraphPattern.ReplaceAllString(textReplacer.Replace(body), "<p>")
}

var labelPattern = regexp.MustCompile(`\\label\{(.*?)\}`)

// labels returns the names of all \label{...} in tex, in order.
func labels(tex string) []string {
	ms := labelPattern.FindAllStringSubmatch(tex, -1)
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m[1]
	}
	return out
}
