// Package htmlconv walks a document tree and produces HTML.
//
// Text is escaped, macros gather their arguments, and every macro or
// environment with a plugin is handed to it; the plugin output is spliced in
// place of the node and converted in turn. Everything without a plugin
// (math, unknown environments and macros, double braces) becomes a Fragment
// in the Registry and an image placeholder in the HTML.
package htmlconv
