package delim

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func pluginSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		plugins []string
		want    []Delimiter
	}{
		{
			name:  "nested opaque environments of the same name collapse",
			input: `foo \begin{bar}\begin{bar}\end{bar}\end{bar}`,
			want: []Delimiter{
				{Span: Span{4, 15}, Open: Open, Kind: Env, Name: "bar"},
				{Span: Span{35, 44}, Open: Close, Kind: Env, Name: "bar"},
			},
		},
		{
			name:  "opaque environment swallows math",
			input: `foo \begin{bar} $x$ \end{bar}`,
			want: []Delimiter{
				{Span: Span{4, 15}, Open: Open, Kind: Env, Name: "bar"},
				{Span: Span{20, 29}, Open: Close, Kind: Env, Name: "bar"},
			},
		},
		{
			name:    "plugin environment stays transparent",
			input:   `foo \begin{bar} $x$ \end{bar}`,
			plugins: []string{"bar"},
			want: []Delimiter{
				{Span: Span{4, 15}, Open: Open, Kind: Env, Name: "bar"},
				{Span: Span{16, 17}, Open: Open, Kind: Math1},
				{Span: Span{18, 19}, Open: Close, Kind: Math1},
				{Span: Span{20, 29}, Open: Close, Kind: Env, Name: "bar"},
			},
		},
		{
			name:  "math interior is dropped",
			input: `$a{b}$`,
			want: []Delimiter{
				{Span: Span{0, 1}, Open: Open, Kind: Math1},
				{Span: Span{5, 6}, Open: Close, Kind: Math1},
			},
		},
		{
			name:    "math stays atomic even with plugins for its content",
			input:   `$\begin{bar}x\end{bar}$`,
			plugins: []string{"bar"},
			want: []Delimiter{
				{Span: Span{0, 1}, Open: Open, Kind: Math1},
				{Span: Span{22, 23}, Open: Close, Kind: Math1},
			},
		},
		{
			name:    "opaque environment inside plugin environment",
			input:   `\begin{itemize}\item \begin{tabular}{c}x\end{tabular}\end{itemize}`,
			plugins: []string{"itemize", "item"},
			want: []Delimiter{
				{Span: Span{0, 15}, Open: Open, Kind: Env, Name: "itemize"},
				{Span: Span{15, 20}, Open: Atomic, Kind: Macro, Name: "item"},
				{Span: Span{21, 36}, Open: Open, Kind: Env, Name: "tabular"},
				{Span: Span{40, 53}, Open: Close, Kind: Env, Name: "tabular"},
				{Span: Span{53, 66}, Open: Close, Kind: Env, Name: "itemize"},
			},
		},
		{
			name:  "different environment names do not count for depth",
			input: `\begin{a}\begin{b}\end{a}\end{b}`,
			want: []Delimiter{
				{Span: Span{0, 9}, Open: Open, Kind: Env, Name: "a"},
				{Span: Span{18, 25}, Open: Close, Kind: Env, Name: "a"},
				{Span: Span{25, 32}, Open: Close, Kind: Env, Name: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := Find(tt.input, nil)
			if err != nil {
				t.Fatalf("Find(%q) error = %v", tt.input, err)
			}
			got, err := Prune(found, pluginSet(tt.plugins...))
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Prune(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestPrune_Idempotent(t *testing.T) {
	pluginSets := [][]string{nil, {"itemize", "item", "bar"}, {"align", "figure"}}
	for _, input := range corpus {
		found, err := Find(input, isVerbatim)
		if err != nil {
			t.Fatalf("Find(%q) error = %v", input, err)
		}
		for _, names := range pluginSets {
			has := pluginSet(names...)
			once, err := Prune(found, has)
			if err != nil {
				t.Fatalf("Prune(%q) error = %v", input, err)
			}
			twice, err := Prune(once, has)
			if err != nil {
				t.Fatalf("Prune(Prune(%q)) error = %v", input, err)
			}
			if diff := cmp.Diff(once, twice, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Prune(%q, %v) not idempotent (-once +twice):\n%s", input, names, diff)
			}
		}
	}
}

func TestPrune_UnclosedOpaqueEnvironment(t *testing.T) {
	found, err := Find(`\begin{bar} never closed`, nil)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	_, err = Prune(found, nil)
	if !errors.Is(err, ErrUnbalanced) {
		t.Errorf("Prune() error = %v, want ErrUnbalanced", err)
	}
}
