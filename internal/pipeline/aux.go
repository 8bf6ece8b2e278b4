package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
)

var newLabel = regexp.MustCompile(`^\\newlabel\{([^}]*)\}\{\{([^}]*)\}`)

// ParseAux reads the \newlabel entries of a LaTeX .aux file and maps each
// label to its printed number. Later definitions win, as in LaTeX.
func ParseAux(r io.Reader) (map[string]string, error) {
	labels := make(map[string]string)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if m := newLabel.FindStringSubmatch(sc.Text()); m != nil {
			labels[m[1]] = m[2]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading aux file: %w", err)
	}
	return labels, nil
}
