package tex2html

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	auto := min(max(runtime.GOMAXPROCS(0), MinPoolSize), MaxPoolSize)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 3, 3},
		{"explicit above cap", 64, 64},
		{"zero is automatic", 0, auto},
		{"negative is automatic", -1, auto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

// fakeRenderer records calls and fails for the configured placeholders.
type fakeRenderer struct {
	mu       sync.Mutex
	calls    map[string]int
	fail     map[string]bool
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (r *fakeRenderer) Render(_ context.Context, _ string, f Fragment) (string, error) {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}

	r.mu.Lock()
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[f.Placeholder]++
	r.mu.Unlock()

	time.Sleep(r.delay)
	if r.fail[f.Placeholder] {
		return "", errors.New("render failed")
	}
	return "png", nil
}

func frags(placeholders ...string) []Fragment {
	out := make([]Fragment, len(placeholders))
	for i, p := range placeholders {
		out[i] = Fragment{Placeholder: p, Tex: p}
	}
	return out
}

func TestRenderAll(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{fail: map[string]bool{"b": true}}
	results := RenderAll(context.Background(), r, "", frags("a", "b", "a", "c"), 2)

	var got []string
	for _, res := range results {
		got = append(got, res.Placeholder)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
	}

	if results[1].Err == nil {
		t.Error("results[1].Err = nil, want failure for b")
	}
	for _, i := range []int{0, 2} {
		if results[i].Err != nil || results[i].Ext != "png" {
			t.Errorf("results[%d] = %+v, want success with png", i, results[i])
		}
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "b": 1, "c": 1}, r.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderAll_Empty(t *testing.T) {
	t.Parallel()

	if got := RenderAll(context.Background(), &fakeRenderer{}, "", nil, 4); got != nil {
		t.Errorf("RenderAll(nil) = %v, want nil", got)
	}
}

func TestRenderAll_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{delay: 10 * time.Millisecond}
	results := RenderAll(context.Background(), r, "", frags("a", "b", "c", "d", "e", "f", "g", "h"), 3)

	if s := Summarize(results); s.Succeeded != 8 || s.Failed != 0 {
		t.Errorf("Summarize() = %+v, want 8 succeeded", s)
	}
	if peak := r.peak.Load(); peak > 3 {
		t.Errorf("peak concurrency = %d, want at most 3", peak)
	}
}

func TestRenderAll_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &fakeRenderer{}
	results := RenderAll(ctx, r, "", frags("a", "b"), 1)
	for _, res := range results {
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("result %s error = %v, want context.Canceled", res.Placeholder, res.Err)
		}
	}
	if len(r.calls) != 0 {
		t.Errorf("renderer called %d times, want 0", len(r.calls))
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	results := []RenderResult{
		{Placeholder: "a"},
		{Placeholder: "b", Err: errors.New("x")},
		{Placeholder: "c"},
	}
	want := RenderSummary{Succeeded: 2, Failed: 1}
	if got := Summarize(results); got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestExtensions(t *testing.T) {
	t.Parallel()

	results := []RenderResult{
		{Placeholder: "a", Ext: "png"},
		{Placeholder: "b", Ext: "png", Err: errors.New("x")},
		{Placeholder: "c", Ext: "tex"},
		{Placeholder: "d"},
	}
	want := map[string]string{"a": "png", "c": "tex"}
	if diff := cmp.Diff(want, Extensions(results)); diff != "" {
		t.Errorf("Extensions() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveImages(t *testing.T) {
	t.Parallel()

	html := "x " + tag("a") + " y " + tag("b")
	results := []RenderResult{
		{Placeholder: "a", Ext: "png"},
		{Placeholder: "b", Err: errors.New("x")},
	}

	got, err := ResolveImages(html, results, "img")
	if err != nil {
		t.Fatalf("ResolveImages() error = %v", err)
	}
	want := "x " + tag("img/a.png") + " y " + tag("b")
	if got != want {
		t.Errorf("ResolveImages() = %q, want %q", got, want)
	}

	again, err := ResolveImages(got, results, "img")
	if err != nil {
		t.Fatalf("ResolveImages() second pass error = %v", err)
	}
	if again != got {
		t.Errorf("second pass = %q, want unchanged %q", again, got)
	}
}
