package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	tex2html "github.com/alnah/go-tex2html"
	"github.com/alnah/go-tex2html/internal/config"
	"github.com/alnah/go-tex2html/internal/counters"
	"github.com/alnah/go-tex2html/internal/fileutil"
	"github.com/alnah/go-tex2html/internal/hints"
	"github.com/alnah/go-tex2html/internal/pipeline"
	"github.com/alnah/go-tex2html/internal/plugins"
	"github.com/alnah/go-tex2html/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadInput   = errors.New("failed to read input file")
	ErrWriteOutput = errors.New("failed to write output file")
)

// Output naming.
const (
	htmlExt     = "html"
	manifestExt = "fragments.yaml"
)

// run parses args and performs one conversion.
func run(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoInput, err)
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "tex2html %s\n", Version)
		return nil
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positional []string, flags *cliFlags, env *Environment) error {
	if len(positional) != 1 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: want exactly one .tex file, got %d", ErrNoInput, len(positional))
	}
	inputPath := positional[0]

	enabled, err := colorEnabled(flags.common.color)
	if err != nil {
		return err
	}
	st := newStyles(enabled)

	envCfg := loadEnvConfig(env.Getenv)
	if !flags.common.noEnvWarning {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	source, err := os.ReadFile(inputPath) // #nosec G304 -- path is user-provided
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	if flags.salt != "" {
		return writeSalted(string(source), flags.salt, cfg, flags.common.quiet, env, st)
	}

	start := env.Now()
	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)

	snaps, err := loadCounters(cfg.Counters.File)
	if err != nil {
		return fmt.Errorf("loading counters: %w%s", err, hints.ForCounterFeed())
	}
	labels, err := loadLabels(flags.input.aux)
	if err != nil {
		return err
	}

	set, err := plugins.Builtins(cfg.Plugins.BuiltinConfig())
	if err != nil {
		if errors.Is(err, plugins.ErrUnknownStyle) {
			return fmt.Errorf("loading plugins: %w%s", err, hints.ForStyleNotFound(plugins.StyleNames()))
		}
		return fmt.Errorf("loading plugins: %w", err)
	}

	conv, err := tex2html.NewConverter(
		tex2html.WithPlugins(set),
		tex2html.WithLogger(logger),
		tex2html.WithPlaceholderFormat(cfg.Placeholder.Format),
		tex2html.WithTagFormat(cfg.Placeholder.Tag),
		tex2html.WithBenign(cfg.Plugins.Benign),
		tex2html.WithDate(cfg.Meta.Date),
		tex2html.WithClock(env.Now),
	)
	if err != nil {
		return err
	}

	res, err := conv.ConvertDocument(ctx, tex2html.DocumentInput{
		Source:   string(source),
		Counters: snaps,
		Labels:   labels,
	})
	if err != nil {
		return convertError(err, env.Stderr)
	}

	outputDir := resolveOutputDir(inputPath, cfg.Render.OutputDir)
	base := filepath.Join(outputDir, filepath.Base(inputPath))

	renderer := newRenderer(outputDir, cfg.Render)
	results := tex2html.RenderAll(ctx, renderer, res.Preamble, res.Fragments, cfg.Render.Workers)
	if err := ctx.Err(); err != nil {
		return err
	}

	html := res.HTML
	if _, ok := renderer.(*tex2html.CommandRenderer); ok {
		html, err = tex2html.ResolveImages(html, results, "")
		if err != nil {
			return fmt.Errorf("resolving images: %w", err)
		}
	}

	htmlPath := fileutil.ReplaceExt(base, htmlExt)
	if err := writeOutput(htmlPath, html); err != nil {
		return err
	}

	rep := &report{
		htmlPath:    htmlPath,
		fragments:   len(res.Fragments),
		unconverted: res.Unconverted,
		renders:     results,
	}
	if len(res.Fragments) > 0 {
		rep.manifestPath = fileutil.ReplaceExt(base, manifestExt)
		data, err := yamlutil.Marshal(res.Fragments)
		if err != nil {
			return fmt.Errorf("encoding fragment manifest: %w", err)
		}
		if err := writeOutput(rep.manifestPath, string(data)); err != nil {
			return err
		}
	}
	rep.elapsed = env.Now().Sub(start)

	failed := printReport(env.Stdout, env.Stderr, st, rep, flags.common.quiet, flags.common.verbose)
	if failed > 0 {
		return fmt.Errorf("%w: %d fragment(s) failed%s", tex2html.ErrRender, failed, renderHint(cfg.Render.Command))
	}
	return nil
}

// loadConfig loads the config named by the flag, then by TEX2HTML_CONFIG.
// Without either, the defaults apply.
func loadConfig(flagValue, envValue string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envValue
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		var nf *config.NotFoundError
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(nf.Tried))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Render.OutputDir = flags.output
	}
	if flags.style != "" {
		cfg.Plugins.Style = flags.style
	}
	if flags.date != "" {
		cfg.Meta.Date = flags.date
	}
	if flags.input.counters != "" {
		cfg.Counters.File = flags.input.counters
	}
	if flags.render.workers > 0 {
		cfg.Render.Workers = flags.render.workers
	}
	if flags.render.keepSources {
		cfg.Render.KeepSources = true
	}
	if flags.render.format != "" {
		cfg.Render.AltImageFormat = flags.render.format
	}
}

// newLogger returns a text logger on w. Quiet keeps errors only; verbose
// adds the dispatch details logged at debug level.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadCounters reads a counter feed. YAML files hold a snapshot list; any
// other file is a dump written by a salted LaTeX run. An empty path means
// no counters.
func loadCounters(path string) (tex2html.Snapshots, error) {
	if path == "" {
		return nil, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return counters.LoadYAML(path)
	}

	f, err := os.Open(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", counters.ErrReadFeed, err)
	}
	defer func() { _ = f.Close() }()
	return counters.ParseDump(f)
}

// loadLabels reads the \newlabel table of an .aux file. An empty path
// means no labels.
func loadLabels(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	defer func() { _ = f.Close() }()
	return pipeline.ParseAux(f)
}

// resolveOutputDir returns the configured directory, or the input's own.
func resolveOutputDir(inputPath, configured string) string {
	if configured != "" {
		return configured
	}
	return filepath.Dir(inputPath)
}

// newRenderer picks the command renderer when render.command is set and
// the source writer otherwise.
func newRenderer(dir string, rc config.RenderConfig) tex2html.Renderer {
	if len(rc.Command) == 0 {
		return &tex2html.SourceRenderer{Dir: dir}
	}
	return &tex2html.CommandRenderer{
		Dir:         dir,
		Command:     rc.Command,
		Ext:         rc.AltImageFormat,
		KeepSources: rc.KeepSources,
	}
}

// writeSalted writes the document with counter dumps inserted, for a LaTeX
// run that produces the feed read by --counters.
func writeSalted(source, path string, cfg *config.Config, quiet bool, env *Environment, st *styles) error {
	preamble, body, err := pipeline.SplitDocument(source)
	if err != nil {
		return fmt.Errorf("salting: %w%s", err, hints.ForNoDocument())
	}
	salted := counters.SaltDocument(preamble, body, cfg.Counters.SaltOptions())
	if err := writeOutput(path, salted); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(env.Stdout, "%s %s\n", st.created.Sprint("Created"), path)
	}
	return nil
}

// writeOutput writes content to path atomically.
func writeOutput(path, content string) error {
	if err := fileutil.WriteFile(path, content); err != nil {
		return fmt.Errorf("%w: %s: %w%s", ErrWriteOutput, path, err, hints.ForOutputDirectory())
	}
	return nil
}

// convertError appends a hint to a conversion error. An inconsistent tree
// also prints the recorded and rebuilt bodies.
func convertError(err error, stderr io.Writer) error {
	var inc *tex2html.InconsistencyError
	switch {
	case errors.Is(err, tex2html.ErrNoDocument):
		return fmt.Errorf("%w%s", err, hints.ForNoDocument())
	case errors.As(err, &inc):
		fmt.Fprintln(stderr, inc.Dump())
		return fmt.Errorf("%w%s", err, hints.ForInconsistentTree())
	}
	return err
}

// renderHint returns the hint for failed renders.
func renderHint(command []string) string {
	if len(command) == 0 {
		return ""
	}
	return hints.ForRenderCommand(command[0])
}
