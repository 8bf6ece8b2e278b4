package main

import (
	"fmt"
	"io"
)

// printUsage prints the command usage.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2html <input.tex> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a LaTeX document to HTML. Anything without a plugin becomes a")
	fmt.Fprintln(w, "fragment: a standalone .tex file named after its <img> placeholder.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to input)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --counters <file>     Counter feed (.nobby dump or .yaml)")
	fmt.Fprintln(w, "      --aux <file>          LaTeX .aux file resolving \\ref")
	fmt.Fprintln(w, "      --salt <file>         Write a salted document and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -j, --workers <n>         Parallel fragment renders (0 = auto)")
	fmt.Fprintln(w, "      --format <ext>        Extension of rendered images (render.command)")
	fmt.Fprintln(w, "      --keep-sources        Keep fragment .tex files after rendering")
	fmt.Fprintln(w, "      --style <name>        chroma style for verbatim and lstlisting")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", literal, \"none\"")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, long, tex")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show unconverted names and timing")
	fmt.Fprintln(w, "      --color <mode>        auto, always, never")
	fmt.Fprintln(w, "      --no-env-warning      Do not warn about unknown TEX2HTML_* variables")
	fmt.Fprintln(w, "      --version             Show version information")
}
