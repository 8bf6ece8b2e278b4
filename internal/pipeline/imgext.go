package pipeline

import (
	"errors"
	"io"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ResolveExtensions rewrites the src of every <img> whose value is a known
// placeholder to "dir/placeholder.ext", with ext taken from exts. Everything
// else, including the markup around the images, is copied byte for byte.
// Rewritten sources are no longer placeholders, so a second pass is a no-op,
// and the result does not depend on the order in which exts was filled.
// An empty dir leaves the file name relative.
func ResolveExtensions(content string, exts map[string]string, dir string) (string, error) {
	if len(exts) == 0 {
		return content, nil
	}

	var b strings.Builder
	b.Grow(len(content) + 8*len(exts))

	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return b.String(), nil
		}

		raw := z.Raw()
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			b.Write(raw)
			continue
		}

		tok := z.Token()
		if tok.DataAtom != atom.Img || !rewriteSrc(&tok, exts, dir) {
			b.Write(raw)
			continue
		}
		b.WriteString(tok.String())
	}
}

func rewriteSrc(tok *html.Token, exts map[string]string, dir string) bool {
	for i, a := range tok.Attr {
		if a.Key != "src" {
			continue
		}
		ext, ok := exts[a.Val]
		if !ok {
			return false
		}
		name := a.Val + "." + strings.TrimPrefix(ext, ".")
		if dir != "" {
			name = path.Join(dir, name)
		}
		tok.Attr[i].Val = name
		return true
	}
	return false
}
