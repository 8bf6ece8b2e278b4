// Package tex2html converts LaTeX documents to HTML plus a list of fragments
// that have no HTML equivalent and are rendered as images elsewhere.
//
// # Quick Start
//
// Create a converter and convert a full document:
//
//	conv, err := tex2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := conv.ConvertDocument(ctx, tex2html.DocumentInput{
//	    Source: source,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("doc.html", []byte(res.HTML), 0644)
//
// Every equation, figure and unrecognized macro in res.Fragments carries a
// placeholder. The HTML references it through an <img> tag whose src is the
// bare placeholder until the fragment is rendered.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Delimiter scanning (comments, environments, braces, math, newlines, macros)
//  2. Pruning (math and environments without a plugin stay opaque)
//  3. Text gap synthesis and tree building, annotated with counter snapshots
//  4. Tree walk dispatching macros and environments to plugins
//  5. Fragment fallback for everything no plugin handles
//
// Every stage checks its structural invariants. A violation aborts the whole
// conversion; see the sentinel errors in errors.go.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := tex2html.NewConverter(
//	    tex2html.WithPlaceholderFormat("eq-%s-%04d"),
//	    tex2html.WithLogger(slog.Default()),
//	)
//
// Per-conversion data is passed via Input or DocumentInput:
//
//	res, err := conv.Convert(ctx, tex2html.Input{
//	    Body:     body,
//	    Counters: snapshots, // from ParseCounters
//	    Labels:   labels,    // from ParseLabels
//	})
//
// # Plugins
//
// The built-in plugins cover lists, sectioning, links, references, font
// macros and highlighted listings. Extend or replace them with WithPlugins:
//
//	set, _ := tex2html.BuiltinPlugins()
//	set, _ = set.With(map[string]tex2html.Plugin{
//	    "mymacro": tex2html.PluginFunc(func(ctx context.Context, c *tex2html.Call) ([]tex2html.Output, error) {
//	        out := append([]tex2html.Output{tex2html.Text("<b>")}, c.Rest(0)...)
//	        return append(out, tex2html.Text("</b>")), nil
//	    }),
//	})
//	conv, _ := tex2html.NewConverter(tex2html.WithPlugins(set))
//
// # Rendering Fragments
//
// RenderAll hands fragments to a Renderer over a bounded worker pool, at most
// once per placeholder. SourceRenderer writes standalone .tex files;
// CommandRenderer additionally runs a user command on each of them.
// ResolveImages then points the <img> tags at the produced files.
package tex2html
