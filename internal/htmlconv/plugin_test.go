package htmlconv

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type rawStub struct{ PluginFunc }

func (rawStub) Raw() {}

func TestPluginSet(t *testing.T) {
	t.Parallel()

	noop := PluginFunc(func(context.Context, *Call) ([]Output, error) { return nil, nil })
	set := mustSet(t, map[string]Plugin{
		"itemize":  noop,
		"verbatim": rawStub{noop},
	})

	tests := []struct {
		name            string
		wantFound       bool
		wantTransparent bool
		wantRaw         bool
	}{
		{"itemize", true, true, false},
		{"verbatim", true, false, true},
		{"tabular", false, false, false},
	}
	for _, tt := range tests {
		if _, ok := set.Lookup(tt.name); ok != tt.wantFound {
			t.Errorf("Lookup(%q) found = %v, want %v", tt.name, ok, tt.wantFound)
		}
		if got := set.Transparent(tt.name); got != tt.wantTransparent {
			t.Errorf("Transparent(%q) = %v, want %v", tt.name, got, tt.wantTransparent)
		}
		if got := set.Raw(tt.name); got != tt.wantRaw {
			t.Errorf("Raw(%q) = %v, want %v", tt.name, got, tt.wantRaw)
		}
	}

	more, err := set.With(map[string]Plugin{"emph": noop})
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
	if diff := cmp.Diff([]string{"emph", "itemize", "verbatim"}, more.Names()); diff != "" {
		t.Errorf("With().Names() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"verbatim"}, set.Without("itemize").Names()); diff != "" {
		t.Errorf("Without().Names() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := set.Lookup("emph"); ok {
		t.Error("With() modified the original set")
	}
}

func TestPluginSet_Nil(t *testing.T) {
	t.Parallel()

	var set *PluginSet
	if _, ok := set.Lookup("x"); ok {
		t.Error("nil set Lookup() found a plugin")
	}
	if set.Transparent("x") {
		t.Error("nil set Transparent() = true")
	}
	if set.Raw("x") {
		t.Error("nil set Raw() = true")
	}
	if _, err := NewPluginSet(map[string]Plugin{"x": nil}); !errors.Is(err, ErrPluginContract) {
		t.Errorf("NewPluginSet(nil plugin) error = %v, want ErrPluginContract", err)
	}
}

func TestConvert_RawPluginSeesBody(t *testing.T) {
	t.Parallel()

	var body string
	set := mustSet(t, map[string]Plugin{
		"verbatim": rawStub{func(_ context.Context, c *Call) ([]Output, error) {
			body = c.Tree.Node(c.Node).Body
			return []Output{Text("<pre/>")}, nil
		}},
	})
	res := convert(t, `a \begin{verbatim}$x {\end{verbatim} b`, set, nil)
	if res.HTML != "a <pre/> b" {
		t.Errorf("HTML = %q, want %q", res.HTML, "a <pre/> b")
	}
	if body != "$x {" {
		t.Errorf("raw body = %q, want %q", body, "$x {")
	}
}
