package tex2html

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-tex2html/internal/fileutil"
	"github.com/alnah/go-tex2html/internal/process"
)

// SourceExt is the extension of fragment sources.
const SourceExt = "tex"

// maxOutputTail bounds the command output quoted in a render error.
const maxOutputTail = 2048

// Renderer materializes one fragment and returns the extension of the file
// it produced under the fragment's placeholder name.
type Renderer interface {
	Render(ctx context.Context, preamble string, f Fragment) (ext string, err error)
}

// FragmentSource returns a standalone LaTeX document for f: the preamble,
// the counters of f's snapshot and the fragment on an empty page.
func FragmentSource(preamble string, f Fragment) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\\begin{document}\n\\pagestyle{empty}\n")

	names := make([]string, 0, len(f.Counters))
	for name := range f.Counters {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&b, "\\setcounter{%s}{%d}\n", name, f.Counters[name])
	}

	b.WriteString(f.Tex)
	b.WriteString("\n\\end{document}\n")
	return b.String()
}

// checkPlaceholder rejects placeholders that would escape the output directory.
func checkPlaceholder(p string) error {
	if p == "" || p == "." || p == ".." || strings.ContainsAny(p, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrUnsafePlaceholder, p)
	}
	return nil
}

// SourceRenderer writes every fragment as <Dir>/<placeholder>.tex for an
// external LaTeX toolchain.
type SourceRenderer struct {
	Dir string
}

// Render writes the fragment source.
func (r *SourceRenderer) Render(_ context.Context, preamble string, f Fragment) (string, error) {
	if err := checkPlaceholder(f.Placeholder); err != nil {
		return "", err
	}
	path := filepath.Join(r.Dir, f.Placeholder+"."+SourceExt)
	if err := fileutil.WriteFile(path, FragmentSource(preamble, f)); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return SourceExt, nil
}

// CommandRenderer writes the fragment source like SourceRenderer, then runs
// Command in Dir. Every "{}" in the arguments is replaced with the source
// file name and every "{base}" with the placeholder. The command must leave
// <placeholder>.<Ext> in Dir.
type CommandRenderer struct {
	Dir         string
	Command     []string
	Ext         string
	KeepSources bool
}

// Render writes the source, runs the command and checks its output file.
func (r *CommandRenderer) Render(ctx context.Context, preamble string, f Fragment) (string, error) {
	if len(r.Command) == 0 || r.Command[0] == "" {
		return "", ErrNoCommand
	}
	if err := fileutil.ValidateExtension(r.Ext); err != nil {
		return "", fmt.Errorf("%w: output extension: %v", ErrRender, err)
	}

	src := &SourceRenderer{Dir: r.Dir}
	if _, err := src.Render(ctx, preamble, f); err != nil {
		return "", err
	}
	srcName := f.Placeholder + "." + SourceExt
	if !r.KeepSources {
		defer func() { _ = os.Remove(filepath.Join(r.Dir, srcName)) }()
	}

	args := make([]string, len(r.Command)-1)
	for i, a := range r.Command[1:] {
		a = strings.ReplaceAll(a, "{base}", f.Placeholder)
		args[i] = strings.ReplaceAll(a, "{}", srcName)
	}

	out, err := process.Command(ctx, r.Dir, r.Command[0], args...).CombinedOutput()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v%s", ErrRender, r.Command[0], err, outputTail(out))
	}

	produced := filepath.Join(r.Dir, f.Placeholder+"."+r.Ext)
	if !fileutil.FileExists(produced) {
		return "", fmt.Errorf("%w: %s did not produce %s", ErrRender, r.Command[0], produced)
	}
	return r.Ext, nil
}

// outputTail returns the last lines of command output, where LaTeX reports
// the error, prefixed for appending to an error message.
func outputTail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return ""
	}
	if len(s) > maxOutputTail {
		s = "..." + s[len(s)-maxOutputTail:]
	}
	return "\n" + s
}
