// Package counters holds LaTeX numbering counter snapshots.
//
// A snapshot records the values of all tracked counters (section, equation,
// figure, ...) at one byte offset of the document body. Snapshots are
// produced by compiling a salted copy of the document (see Salt) and reading
// back the dump file (see ParseDump), or loaded from YAML (see LoadYAML).
// Once loaded they are read-only.
package counters

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"sort"

	"github.com/alnah/go-tex2html/internal/yamlutil"
)

// Sentinel errors for counter feeds.
var (
	ErrMalformedDump = errors.New("malformed counter dump")
	ErrUnsorted      = errors.New("counter snapshots not sorted by offset")
	ErrReadFeed      = errors.New("failed to read counter feed")
)

// Snapshot is the value of every tracked counter at Offset.
type Snapshot struct {
	Offset int            `yaml:"offset"`
	Values map[string]int `yaml:"counters"`
}

// Snapshots is a list of snapshots sorted by ascending offset.
type Snapshots []Snapshot

// Validate checks that offsets never decrease.
func (s Snapshots) Validate() error {
	for i := 1; i < len(s); i++ {
		if s[i].Offset < s[i-1].Offset {
			return fmt.Errorf("%w: offset %d follows %d", ErrUnsorted, s[i].Offset, s[i-1].Offset)
		}
	}
	return nil
}

// Lookup returns the index of the snapshot that applies at offset: the one
// with the greatest offset not after it, or the first one if offset precedes
// all of them. Returns -1 when there are no snapshots.
func (s Snapshots) Lookup(offset int) int {
	if len(s) == 0 {
		return -1
	}
	// First snapshot strictly after offset.
	i := sort.Search(len(s), func(i int) bool { return s[i].Offset > offset })
	if i == 0 {
		return 0
	}
	return i - 1
}

// Values returns a copy of the counters of snapshot idx.
// An out-of-range index yields an empty map.
func (s Snapshots) Values(idx int) map[string]int {
	if idx < 0 || idx >= len(s) {
		return map[string]int{}
	}
	return maps.Clone(s[idx].Values)
}

// LoadYAML reads a YAML list of {offset, counters} entries.
func LoadYAML(path string) (Snapshots, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFeed, err)
	}

	var snaps Snapshots
	if err := yamlutil.UnmarshalStrict(data, &snaps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFeed, err)
	}
	if err := snaps.Validate(); err != nil {
		return nil, err
	}
	return snaps, nil
}
