package tex2html

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/alnah/go-tex2html/internal/pipeline"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent LaTeX runs.
	MaxPoolSize = 32
)

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0)
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// RenderResult holds the outcome of rendering one placeholder.
type RenderResult struct {
	Placeholder string
	Ext         string
	Err         error
	Duration    time.Duration
}

// RenderSummary holds the count of rendered and failed fragments.
type RenderSummary struct {
	Succeeded int
	Failed    int
}

// RenderAll renders fragments concurrently on at most workers goroutines.
// Each placeholder is rendered at most once; a repeated placeholder keeps
// its first fragment. Results follow the order of first occurrence, and a
// failure affects only its own result.
func RenderAll(ctx context.Context, r Renderer, preamble string, frags []Fragment, workers int) []RenderResult {
	unique := make([]Fragment, 0, len(frags))
	seen := make(map[string]bool, len(frags))
	for _, f := range frags {
		if seen[f.Placeholder] {
			continue
		}
		seen[f.Placeholder] = true
		unique = append(unique, f)
	}
	if len(unique) == 0 {
		return nil
	}

	concurrency := ResolvePoolSize(workers)
	if concurrency > len(unique) {
		concurrency = len(unique)
	}

	results := make([]RenderResult, len(unique))
	var wg sync.WaitGroup
	jobs := make(chan int, len(unique))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				f := unique[idx]
				if err := ctx.Err(); err != nil {
					results[idx] = RenderResult{Placeholder: f.Placeholder, Err: err}
					continue
				}
				start := time.Now()
				ext, err := r.Render(ctx, preamble, f)
				results[idx] = RenderResult{
					Placeholder: f.Placeholder,
					Ext:         ext,
					Err:         err,
					Duration:    time.Since(start),
				}
			}
		}()
	}

	for i := range unique {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// Summarize tallies rendered and failed fragments.
func Summarize(results []RenderResult) RenderSummary {
	var summary RenderSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// Extensions maps the placeholder of every successful result to its extension.
func Extensions(results []RenderResult) map[string]string {
	exts := make(map[string]string, len(results))
	for _, r := range results {
		if r.Err == nil && r.Ext != "" {
			exts[r.Placeholder] = r.Ext
		}
	}
	return exts
}

// ResolveImages points every placeholder <img> with a successful result at
// dir/placeholder.ext. The rewrite is idempotent and order-independent.
func ResolveImages(html string, results []RenderResult, dir string) (string, error) {
	return pipeline.ResolveExtensions(html, Extensions(results), dir)
}
