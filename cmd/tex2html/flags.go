package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags controlling output verbosity and config lookup.
type commonFlags struct {
	config       string
	quiet        bool
	verbose      bool
	color        string
	noEnvWarning bool
}

// inputFlags holds the side inputs of a conversion.
type inputFlags struct {
	counters string // .nobby dump or YAML feed
	aux      string // .aux file for \ref
}

// renderFlags holds fragment rendering flags.
type renderFlags struct {
	workers     int
	keepSources bool
	format      string
}

// cliFlags holds all flags of the tex2html command.
type cliFlags struct {
	common  commonFlags
	input   inputFlags
	render  renderFlags
	output  string
	salt    string
	style   string
	date    string
	version bool
}

// colorModes lists the accepted --color values.
var colorModes = []string{"auto", "always", "never"}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show unconverted names and timing")
	fs.StringVar(&f.color, "color", "auto", "color output: auto, always, never")
	fs.BoolVar(&f.noEnvWarning, "no-env-warning", false, "do not warn about unknown TEX2HTML_* variables")
}

// addInputFlags adds side input flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVar(&f.counters, "counters", "", "counter feed: .nobby dump or .yaml list")
	fs.StringVar(&f.aux, "aux", "", "LaTeX .aux file resolving \\ref")
}

// addRenderFlags adds fragment rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.IntVarP(&f.workers, "workers", "j", 0, "parallel fragment renders (0 = auto)")
	fs.BoolVar(&f.keepSources, "keep-sources", false, "keep fragment .tex files after rendering")
	fs.StringVar(&f.format, "format", "", "extension of rendered fragment images")
}

// parseFlags parses command flags and returns positional args.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("tex2html", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.salt, "salt", "", "write a salted document for counter capture and exit")
	fs.StringVar(&f.style, "style", "", "chroma style for verbatim and lstlisting")
	fs.StringVar(&f.date, "date", "", "date in the HTML comment: auto, auto:FORMAT, literal, none")
	fs.BoolVar(&f.version, "version", false, "show version information")

	addCommonFlags(fs, &f.common)
	addInputFlags(fs, &f.input)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
