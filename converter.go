package tex2html

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alnah/go-tex2html/internal/dateutil"
	"github.com/alnah/go-tex2html/internal/doctree"
	"github.com/alnah/go-tex2html/internal/htmlconv"
	"github.com/alnah/go-tex2html/internal/pipeline"
	"github.com/alnah/go-tex2html/internal/plugins"
)

// Compile-time interface implementation checks.
var (
	_ htmlconv.Plugin    = htmlconv.PluginFunc(nil)
	_ htmlconv.RawPlugin = plugins.Highlighter{}
	_ Renderer           = (*SourceRenderer)(nil)
	_ Renderer           = (*CommandRenderer)(nil)
)

// Converter runs the LaTeX-to-HTML pipeline. It keeps no per-document state,
// so one Converter may serve concurrent conversions.
type Converter struct {
	plugins  *PluginSet
	logger   *slog.Logger
	convOpts []htmlconv.Option
	conv     *htmlconv.Converter
	date     string
	now      func() time.Time
}

// NewConverter creates a Converter with the built-in plugins.
// Use options to customize behavior (e.g., WithPlugins, WithLogger).
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		date:   defaultDate,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.plugins == nil {
		set, err := BuiltinPlugins()
		if err != nil {
			return nil, fmt.Errorf("loading built-in plugins: %w", err)
		}
		c.plugins = set
	}

	if _, err := dateutil.Resolve(c.date, time.Time{}); err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	c.conv = htmlconv.New(c.plugins, append(c.convOpts, htmlconv.WithLogger(c.logger))...)
	return c, nil
}

// Plugins returns the plugin set the converter dispatches to.
func (c *Converter) Plugins() *PluginSet {
	return c.plugins
}

// Convert turns a document body into HTML and fragments.
// Numbering starts afresh on every call, so repeated conversions of the same
// input give the same result. Recovers from internal panics to prevent
// crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := input.Counters.Validate(); err != nil {
		return nil, fmt.Errorf("counters: %w", err)
	}

	start := time.Now()
	tree, err := doctree.Parse(input.Body, c.plugins.Transparent, c.plugins.Raw, input.Counters)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("parsed document", "bytes", len(input.Body), "nodes", len(tree.Nodes), "elapsed", time.Since(start))

	ctx = plugins.WithNumbering(ctx, plugins.NewNumbering())
	ctx = plugins.WithLabels(ctx, input.Labels)

	res, err := c.conv.Convert(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("converting: %w", err)
	}

	return &Result{
		HTML:        res.HTML,
		Fragments:   res.Fragments,
		Unconverted: res.Unconverted,
	}, nil
}

// ConvertDocument splits a full document, converts its body and returns
// prettified HTML headed by a comment naming title, author and date.
func (c *Converter) ConvertDocument(ctx context.Context, input DocumentInput) (*DocumentResult, error) {
	preamble, body, err := pipeline.SplitDocument(input.Source)
	if err != nil {
		return nil, err
	}
	preamble = pipeline.SanitizePreamble(preamble)
	meta := pipeline.MetaInfo(preamble)

	res, err := c.Convert(ctx, Input{
		Body:     body,
		Counters: input.Counters,
		Labels:   input.Labels,
	})
	if err != nil {
		return nil, err
	}

	date, err := dateutil.Resolve(c.date, c.now())
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	res.HTML = pipeline.MetaComment(meta, date) + "\n" + pipeline.Prettify(res.HTML)

	return &DocumentResult{
		Result:   *res,
		Preamble: preamble,
		Title:    meta.Title,
		Author:   meta.Author,
	}, nil
}
