package counters

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseDump reads the counter dump written by a salted LaTeX run.
//
// Each non-blank line reads "start\stop\name\value\name\value...", where
// start and stop locate the construct the dump precedes in the unsalted body.
// Spaces around the separators and empty fields are ignored. The snapshot
// offset is start.
func ParseDump(r io.Reader) (Snapshots, error) {
	var snaps Snapshots
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for lineNo := 1; sc.Scan(); lineNo++ {
		fields := splitDumpLine(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 || len(fields)%2 != 0 {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedDump, lineNo, len(fields))
		}

		start, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: start %q", ErrMalformedDump, lineNo, fields[0])
		}
		if _, err := strconv.Atoi(fields[1]); err != nil {
			return nil, fmt.Errorf("%w: line %d: stop %q", ErrMalformedDump, lineNo, fields[1])
		}

		values := make(map[string]int, (len(fields)-2)/2)
		for i := 2; i < len(fields); i += 2 {
			v, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: counter %s=%q", ErrMalformedDump, lineNo, fields[i], fields[i+1])
			}
			values[fields[i]] = v
		}
		snaps = append(snaps, Snapshot{Offset: start, Values: values})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFeed, err)
	}

	if err := snaps.Validate(); err != nil {
		return nil, err
	}
	return snaps, nil
}

func splitDumpLine(line string) []string {
	var fields []string
	for _, f := range strings.Split(line, `\`) {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
