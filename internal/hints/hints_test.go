package hints

// Notes:
// - ForRenderCommand tests cannot use t.Parallel() because they replace the
//   package-level LookPath variable.

import (
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
		},
		{
			name:     "with paths",
			paths:    []string{"./book.yaml", "~/.config/go-tex2html/book.yaml"},
			contains: "create ~/.config/go-tex2html/book.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)

			if !strings.Contains(hint, "hint:") {
				t.Error("expected hint prefix")
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		available []string
		wantEmpty bool
		contains  string
	}{
		{
			name:      "empty available",
			available: []string{},
			wantEmpty: true,
		},
		{
			name:      "with styles",
			available: []string{"github", "monokai"},
			contains:  "github, monokai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForStyleNotFound(tt.available)

			if tt.wantEmpty && hint != "" {
				t.Errorf("expected empty hint, got %q", hint)
			}
			if !tt.wantEmpty && !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForRenderCommand_MissingProgram(t *testing.T) {
	orig := LookPath
	defer func() { LookPath = orig }()
	LookPath = func(string) bool { return false }

	hint := ForRenderCommand("pdflatex")

	if !strings.Contains(hint, "pdflatex not found on PATH") {
		t.Errorf("expected missing program mention, got %q", hint)
	}
	if !strings.Contains(hint, `"{}"`) {
		t.Errorf("expected placeholder mention, got %q", hint)
	}
	if strings.Count(hint, "hint:") != 1 {
		t.Errorf("expected a single hint line, got %q", hint)
	}
}

func TestForRenderCommand_ProgramFound(t *testing.T) {
	orig := LookPath
	defer func() { LookPath = orig }()
	LookPath = func(string) bool { return true }

	hint := ForRenderCommand("pdflatex")

	if strings.Contains(hint, "not found") {
		t.Errorf("unexpected missing program mention: %q", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	hints := []string{
		ForOutputDirectory(),
		ForNoDocument(),
		ForCounterFeed(),
		ForInconsistentTree(),
		ForConfigNotFound(nil),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}

func TestFormat_Empty(t *testing.T) {
	t.Parallel()

	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
}
