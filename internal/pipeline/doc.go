// Package pipeline holds the stages around the core conversion: splitting a
// LaTeX file into preamble and body, reading the label table of the .aux
// file, and finishing the generated HTML (line break cleanup, metadata
// comment, placeholder image names).
//
// The core stages (scan, prune, tree, convert) live in their own packages;
// this package only deals with text going in and HTML coming out.
package pipeline
