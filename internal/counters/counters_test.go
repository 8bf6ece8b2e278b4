package counters

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnapshots_Lookup(t *testing.T) {
	t.Parallel()

	snaps := Snapshots{
		{Offset: 10, Values: map[string]int{"section": 1}},
		{Offset: 40, Values: map[string]int{"section": 2}},
		{Offset: 40, Values: map[string]int{"section": 3}},
		{Offset: 90, Values: map[string]int{"section": 4}},
	}

	tests := []struct {
		name   string
		offset int
		want   int
	}{
		{"before first snapshot", 0, 0},
		{"exact first", 10, 0},
		{"between", 25, 0},
		{"exact duplicate offset picks last", 40, 2},
		{"after last", 1000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := snaps.Lookup(tt.offset); got != tt.want {
				t.Errorf("Lookup(%d) = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}

func TestSnapshots_LookupEmpty(t *testing.T) {
	t.Parallel()

	var snaps Snapshots
	if got := snaps.Lookup(5); got != -1 {
		t.Errorf("Lookup(5) = %d, want -1", got)
	}
	if got := snaps.Values(-1); len(got) != 0 {
		t.Errorf("Values(-1) = %v, want empty", got)
	}
}

func TestSnapshots_ValuesIsCopy(t *testing.T) {
	t.Parallel()

	snaps := Snapshots{{Offset: 0, Values: map[string]int{"equation": 3}}}
	v := snaps.Values(0)
	v["equation"] = 99
	if snaps[0].Values["equation"] != 3 {
		t.Errorf("Values() returned shared map, snapshot now %v", snaps[0].Values)
	}
}

func TestParseDump(t *testing.T) {
	t.Parallel()

	input := "40\\53\\section\\1\\equation\\0\n" +
		"\n" +
		" 120 \\\\ 135 \\\\ section \\\\ 2 \\\\ equation \\\\ 4 \\\\\n"

	got, err := ParseDump(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDump() error = %v", err)
	}
	want := Snapshots{
		{Offset: 40, Values: map[string]int{"section": 1, "equation": 0}},
		{Offset: 120, Values: map[string]int{"section": 2, "equation": 4}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDump() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDump_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"odd field count", `1\2\section`, ErrMalformedDump},
		{"bad start", `x\2\section\1`, ErrMalformedDump},
		{"bad value", `1\2\section\one`, ErrMalformedDump},
		{"single field", `7`, ErrMalformedDump},
		{"unsorted", "50\\60\\a\\1\n10\\20\\a\\2\n", ErrUnsorted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseDump(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseDump(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	data := "- offset: 0\n  counters: {section: 0}\n- offset: 12\n  counters: {section: 1}\n"
	if err := os.WriteFile(good, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	snaps, err := LoadYAML(good)
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	if len(snaps) != 2 || snaps[1].Values["section"] != 1 {
		t.Errorf("LoadYAML() = %+v", snaps)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("- offset: 0\n  extra: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadYAML(bad); !errors.Is(err, ErrReadFeed) {
		t.Errorf("LoadYAML(unknown key) error = %v, want ErrReadFeed", err)
	}

	if _, err := LoadYAML(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrReadFeed) {
		t.Errorf("LoadYAML(missing) error = %v, want ErrReadFeed", err)
	}
}

func TestSalt(t *testing.T) {
	t.Parallel()

	opts := SaltOptions{
		Names:  []string{"section"},
		Envs:   []string{"align"},
		Macros: []string{"section"},
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "environment",
			body: `a \begin{align}x\end{align}`,
			want: `a \addtostream{nobby}{2\\15\\section\\ \arabic{section}\\}\begin{align}x\end{align}`,
		},
		{
			name: "macro",
			body: `\section{A}`,
			want: `\addtostream{nobby}{0\\8\\section\\ \arabic{section}\\}\section{A}`,
		},
		{
			name: "longer macro name is left alone",
			body: `\sectionmark{A} \section*{B}`,
			want: `\sectionmark{A} \section*{B}`,
		},
		{
			name: "unconfigured environment",
			body: `\begin{figure}\end{figure}`,
			want: `\begin{figure}\end{figure}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Salt(tt.body, opts); got != tt.want {
				t.Errorf("Salt(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestSaltDocument(t *testing.T) {
	t.Parallel()

	got := SaltDocument(`\documentclass{article}`, `\section{A}`, SaltOptions{})
	for _, want := range []string{
		`\usepackage{newfile}`,
		`\newoutputstream{nobby}`,
		`\openoutputfile{\jobname.nobby}{nobby}`,
		`\begin{document}`,
		`\addtostream{nobby}{0\\8\\chapter\\ \arabic{chapter}\\section\\ \arabic{section}`,
		`\closeoutputstream{nobby}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("SaltDocument() missing %q in:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "\\end{document}\n") {
		t.Errorf("SaltDocument() does not end with \\end{document}")
	}
}
