package tex2html

import (
	"errors"

	"github.com/alnah/go-tex2html/internal/counters"
	"github.com/alnah/go-tex2html/internal/delim"
	"github.com/alnah/go-tex2html/internal/doctree"
	"github.com/alnah/go-tex2html/internal/htmlconv"
	"github.com/alnah/go-tex2html/internal/pipeline"
	"github.com/alnah/go-tex2html/internal/plugins"
)

// Sentinel errors for library operations.
var (
	ErrInternal          = errors.New("internal error")
	ErrRender            = errors.New("fragment rendering failed")
	ErrNoCommand         = errors.New("render command is empty")
	ErrUnsafePlaceholder = errors.New("placeholder is not a safe file name")

	// Input errors.
	ErrNoDocument       = pipeline.ErrNoDocument
	ErrUnsortedCounters = counters.ErrUnsorted
	ErrMalformedDump    = counters.ErrMalformedDump

	// Structural invariant violations.
	ErrOverlap      = delim.ErrOverlap
	ErrUnbalanced   = delim.ErrUnbalanced
	ErrPartition    = delim.ErrPartition
	ErrInconsistent = doctree.ErrInconsistent

	// Plugin contract violations.
	ErrPluginContract  = htmlconv.ErrPluginContract
	ErrMissingArgument = plugins.ErrMissingArgument
)

// InconsistencyError carries the recorded and rebuilt bodies of a node that
// breaks the reconstruction law. Match it with errors.As.
type InconsistencyError = doctree.InconsistencyError
